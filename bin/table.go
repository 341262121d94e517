package main

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsdynamodb"
	"github.com/aws/jsii-runtime-go"
)

// DynamoDB related resources
func createHitsTable(stack awscdk.Stack) awsdynamodb.Table {
	// Provisioned on purpose so the capacity utilization monitoring has a
	// ceiling to measure against.
	return awsdynamodb.NewTable(stack, jsii.String("HitsTable"), &awsdynamodb.TableProps{
		PartitionKey: &awsdynamodb.Attribute{
			Name: jsii.String("path"),
			Type: awsdynamodb.AttributeType_STRING,
		},
		BillingMode:   awsdynamodb.BillingMode_PROVISIONED,
		ReadCapacity:  jsii.Number(5),
		WriteCapacity: jsii.Number(5),
		RemovalPolicy: awscdk.RemovalPolicy_DESTROY,
	})
}
