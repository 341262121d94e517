package main

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"

	"github.com/30Piraten/watchful/config"
)

func main() {
	defer jsii.Close()

	// Load .env variables one time
	config.LoadDotEnv()

	app := awscdk.NewApp(nil)
	NewDemoStack(app, "WatchfulDemoStack", &DemoStackProps{
		awscdk.StackProps{
			Env: env(),
		},
	})

	app.Synth(nil)
}

func env() *awscdk.Environment {
	// The cdk CLI exports CDK_DEFAULT_REGION; a .env file covers bare go run.
	region := config.CheckEnv("CDK_DEFAULT_REGION")
	account := config.EnvOr("CDK_DEFAULT_ACCOUNT", "")
	if account == "" {
		// Account resolves at deploy time
		return &awscdk.Environment{
			Region: jsii.String(region),
		}
	}
	return &awscdk.Environment{
		Account: jsii.String(account),
		Region:  jsii.String(region),
	}
}
