package main

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"
)

type DemoStackProps struct {
	awscdk.StackProps
}

// NewDemoStack assembles the demo service and its monitoring: a hit counter
// API backed by Lambda and DynamoDB, watched through a single Watchful
// instance.
func NewDemoStack(scope constructs.Construct, id string, props *DemoStackProps) awscdk.Stack {
	var sprops awscdk.StackProps
	if props != nil {
		sprops = props.StackProps
	}
	stack := awscdk.NewStack(scope, &id, &sprops)

	resources := &DemoResources{stack: stack}
	resources.hitsTable = createHitsTable(stack)
	resources.serviceDLQ = createServiceDeadLetterQueue(stack)
	resources.handler = createServiceHandler(stack, resources.hitsTable, resources.serviceDLQ)
	resources.restApi = createServiceApi(stack, resources.handler)
	resources.watchful = createMonitoringResources(stack)

	createStackOutputs(stack, resources)

	return stack
}
