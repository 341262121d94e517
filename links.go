package watchful

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigateway"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudwatch"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsdynamodb"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsrds"
	"github.com/aws/constructs-go/constructs/v10"
)

// Console deep links for the section headers. Region and resource names are
// CDK tokens here and resolve when the stack synthesizes.

func stackRegion(scope constructs.IConstruct) string {
	return *awscdk.Stack_Of(scope).Region()
}

func dashboardLink(scope constructs.IConstruct, dash awscloudwatch.Dashboard) string {
	return fmt.Sprintf("https://console.aws.amazon.com/cloudwatch/home?region=%s#dashboards:name=%s",
		stackRegion(scope), *dash.DashboardName())
}

func dynamoTableLink(scope constructs.IConstruct, table awsdynamodb.Table) string {
	return fmt.Sprintf("https://console.aws.amazon.com/dynamodb/home?region=%s#tables:selected=%s",
		stackRegion(scope), *table.TableName())
}

func lambdaFunctionLink(scope constructs.IConstruct, fn awslambda.Function) string {
	return fmt.Sprintf("https://console.aws.amazon.com/lambda/home?region=%s#/functions/%s",
		stackRegion(scope), *fn.FunctionName())
}

func lambdaLogsLink(scope constructs.IConstruct, fn awslambda.Function) string {
	return fmt.Sprintf("https://console.aws.amazon.com/cloudwatch/home?region=%s#logEventViewer:group=/aws/lambda/%s",
		stackRegion(scope), *fn.FunctionName())
}

func apiGatewayLink(scope constructs.IConstruct, restApi awsapigateway.RestApi) string {
	return fmt.Sprintf("https://console.aws.amazon.com/apigateway/home?region=%s#/apis/%s/dashboard",
		stackRegion(scope), *restApi.RestApiId())
}

func rdsClusterLink(scope constructs.IConstruct, cluster awsrds.DatabaseCluster) string {
	return fmt.Sprintf("https://console.aws.amazon.com/rds/home?region=%s#database:id=%s;is-cluster=true",
		stackRegion(scope), *cluster.ClusterIdentifier())
}

func ecsServiceLink(scope constructs.IConstruct, clusterName *string, serviceName *string) string {
	return fmt.Sprintf("https://console.aws.amazon.com/ecs/home?region=%s#/clusters/%s/services/%s/details",
		stackRegion(scope), *clusterName, *serviceName)
}
