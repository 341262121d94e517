package watchful

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigateway"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsdynamodb"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsrds"
	"github.com/aws/constructs-go/constructs/v10"
)

// WatchfulAspectProps select which resource types automatic watching picks
// up. Every type defaults to on.
type WatchfulAspectProps struct {
	// ApiGateway includes REST APIs.
	ApiGateway *bool `json:"apiGateway,omitempty"`
	// DynamoDb includes DynamoDB tables.
	DynamoDb *bool `json:"dynamodb,omitempty"`
	// Lambda includes Lambda functions.
	Lambda *bool `json:"lambda,omitempty"`
	// RdsAurora includes Aurora database clusters.
	RdsAurora *bool `json:"rdsaurora,omitempty"`
}

// WatchfulAspect walks a construct tree during synthesis and attaches a
// watcher to every supported resource it finds. Section titles use the tree
// path of the resource. ECS services are not picked up automatically because
// the load balancer target group cannot be derived from the service node;
// watch those through WatchFargateEcs or WatchEc2Ecs.
type WatchfulAspect struct {
	watchful *Watchful
	props    *WatchfulAspectProps
}

var _ awscdk.IAspect = (*WatchfulAspect)(nil)

// NewWatchfulAspect creates the aspect. Passing nil props watches every
// supported resource type.
func NewWatchfulAspect(watchful *Watchful, props *WatchfulAspectProps) *WatchfulAspect {
	if props == nil {
		props = &WatchfulAspectProps{}
	}
	return &WatchfulAspect{watchful: watchful, props: props}
}

// Visit implements awscdk.IAspect.
func (a *WatchfulAspect) Visit(node constructs.IConstruct) {
	if watchDefaultOn(a.props.DynamoDb) {
		if table, ok := node.(awsdynamodb.Table); ok {
			a.watchful.WatchDynamoTable(node.Node().Path(), table, nil)
			return
		}
	}
	if watchDefaultOn(a.props.Lambda) {
		if fn, ok := node.(awslambda.Function); ok {
			a.watchful.WatchLambdaFunction(node.Node().Path(), fn, nil)
			return
		}
	}
	if watchDefaultOn(a.props.ApiGateway) {
		if restApi, ok := node.(awsapigateway.RestApi); ok {
			a.watchful.WatchApiGateway(node.Node().Path(), restApi, nil)
			return
		}
	}
	if watchDefaultOn(a.props.RdsAurora) {
		if cluster, ok := node.(awsrds.DatabaseCluster); ok {
			a.watchful.WatchRdsAuroraCluster(node.Node().Path(), cluster, nil)
		}
	}
}

func watchDefaultOn(flag *bool) bool {
	return flag == nil || *flag
}
