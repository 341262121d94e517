package main

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigateway"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsdynamodb"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/aws-cdk-go/awscdk/v2/awssqs"

	"github.com/30Piraten/watchful"
)

type DemoResources struct {
	stack      awscdk.Stack
	hitsTable  awsdynamodb.Table
	serviceDLQ awssqs.IQueue
	handler    awslambda.Function
	restApi    awsapigateway.LambdaRestApi
	watchful   *watchful.Watchful
}
