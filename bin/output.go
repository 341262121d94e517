package main

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
)

func createStackOutputs(stack awscdk.Stack, resources *DemoResources) {
	awscdk.NewCfnOutput(stack, jsii.String("ServiceEndpointOutput"), &awscdk.CfnOutputProps{
		Value: resources.restApi.Url(),
	})

	awscdk.NewCfnOutput(stack, jsii.String("HitsTableNameOutput"), &awscdk.CfnOutputProps{
		Value: resources.hitsTable.TableName(),
	})

	awscdk.NewCfnOutput(stack, jsii.String("ServiceDLQNameOutput"), &awscdk.CfnOutputProps{
		Value: resources.serviceDLQ.QueueName(),
	})
}
