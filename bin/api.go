package main

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigateway"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/jsii-runtime-go"
)

// API Gateway related resources
func createServiceApi(stack awscdk.Stack, handler awslambda.Function) awsapigateway.LambdaRestApi {
	return awsapigateway.NewLambdaRestApi(stack, jsii.String("ServiceApi"), &awsapigateway.LambdaRestApiProps{
		Handler:     handler,
		RestApiName: jsii.String("watchful-demo"),
	})
}
