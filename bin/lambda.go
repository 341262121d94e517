package main

import (
	"path/filepath"
	"runtime"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsdynamodb"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3assets"
	"github.com/aws/aws-cdk-go/awscdk/v2/awssqs"
	"github.com/aws/jsii-runtime-go"
)

// Lambda related resources
func createServiceDeadLetterQueue(stack awscdk.Stack) awssqs.IQueue {
	return awssqs.NewQueue(stack, jsii.String("ServiceDLQ"), &awssqs.QueueProps{
		RetentionPeriod: awscdk.Duration_Days(jsii.Number(7)),
	})
}

func createServiceHandler(stack awscdk.Stack, table awsdynamodb.Table, dlq awssqs.IQueue) awslambda.Function {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		panic("Could not get file name")
	}
	handlerDir := filepath.Join(filepath.Dir(filename), "lambda")

	handler := awslambda.NewFunction(stack, jsii.String("ServiceHandler"), &awslambda.FunctionProps{
		Runtime:         awslambda.Runtime_PROVIDED_AL2023(),
		Handler:         jsii.String("bootstrap"),
		RetryAttempts:   jsii.Number(2),
		MemorySize:      jsii.Number(256),
		Timeout:         awscdk.Duration_Seconds(jsii.Number(10)),
		Architecture:    awslambda.Architecture_ARM_64(),
		DeadLetterQueue: dlq,
		Code:            awslambda.Code_FromAsset(jsii.String(handlerDir), &awss3assets.AssetOptions{}),
		Environment: &map[string]*string{
			"TABLE_NAME": table.TableName(),
		},
		Tracing: awslambda.Tracing_ACTIVE,
	})

	// Grant read/write on the hits table
	table.GrantReadWriteData(handler)

	return handler
}
