package main

import (
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/aws/jsii-runtime-go"
	"github.com/stretchr/testify/assert"
)

func TestDemoStackSynthesizes(t *testing.T) {
	app := awscdk.NewApp(nil)
	stack := NewDemoStack(app, "TestDemoStack", nil)

	template := assertions.Template_FromStack(stack, nil)
	template.ResourceCountIs(jsii.String("AWS::DynamoDB::Table"), jsii.Number(1))
	template.ResourceCountIs(jsii.String("AWS::Lambda::Function"), jsii.Number(1))
	template.ResourceCountIs(jsii.String("AWS::ApiGateway::RestApi"), jsii.Number(1))
	template.ResourceCountIs(jsii.String("AWS::SQS::Queue"), jsii.Number(1))

	template.HasResourceProperties(jsii.String("AWS::Lambda::Function"), map[string]interface{}{
		"Handler": "bootstrap",
		"Environment": assertions.Match_ObjectLike(&map[string]interface{}{
			"Variables": assertions.Match_ObjectLike(&map[string]interface{}{
				"TABLE_NAME": assertions.Match_AnyValue(),
			}),
		}),
	})
}

func TestDemoStackIsFullyWatched(t *testing.T) {
	app := awscdk.NewApp(nil)
	stack := NewDemoStack(app, "TestDemoStack", nil)

	template := assertions.Template_FromStack(stack, nil)
	template.HasResourceProperties(jsii.String("AWS::CloudWatch::Dashboard"), map[string]interface{}{
		"DashboardName": "watchful-demo",
	})

	// Two table capacity alarms, three function alarms and the API server
	// error alarm, all picked up by the scope watcher
	template.ResourceCountIs(jsii.String("AWS::CloudWatch::Alarm"), jsii.Number(6))
}

func TestEnvReadsDeployTarget(t *testing.T) {
	t.Setenv("CDK_DEFAULT_REGION", "eu-central-1")
	t.Setenv("CDK_DEFAULT_ACCOUNT", "")

	environment := env()

	assert.Equal(t, "eu-central-1", *environment.Region)
	assert.Nil(t, environment.Account)
}

func TestEnvPinsAccountWhenProvided(t *testing.T) {
	t.Setenv("CDK_DEFAULT_REGION", "eu-central-1")
	t.Setenv("CDK_DEFAULT_ACCOUNT", "123456789012")

	environment := env()

	assert.Equal(t, "123456789012", *environment.Account)
	assert.Equal(t, "eu-central-1", *environment.Region)
}
