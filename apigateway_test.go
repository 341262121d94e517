package watchful_test

import (
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigateway"
	"github.com/aws/jsii-runtime-go"

	"github.com/30Piraten/watchful"
)

func newRestApi(stack awscdk.Stack) awsapigateway.LambdaRestApi {
	handler := newInlineFunction(stack, "ApiHandler", nil)
	return awsapigateway.NewLambdaRestApi(stack, jsii.String("Api"), &awsapigateway.LambdaRestApiProps{
		Handler: handler,
	})
}

func TestApiGetsServerErrorAlarm(t *testing.T) {
	stack := testStack()
	api := newRestApi(stack)
	w := watchful.NewWatchful(stack, jsii.String("Watchful"), nil)
	w.WatchApiGateway(jsii.String("Api"), api, nil)

	template := assertions.Template_FromStack(stack, nil)
	template.ResourceCountIs(jsii.String("AWS::CloudWatch::Alarm"), jsii.Number(1))
	template.HasResourceProperties(jsii.String("AWS::CloudWatch::Alarm"), map[string]interface{}{
		"Namespace":          "AWS/ApiGateway",
		"MetricName":         "5XXError",
		"Statistic":          "Sum",
		"Period":             300,
		"Threshold":          1,
		"EvaluationPeriods":  1,
		"ComparisonOperator": "GreaterThanOrEqualToThreshold",
		"Dimensions": assertions.Match_ArrayWith(&[]interface{}{
			assertions.Match_ObjectLike(&map[string]interface{}{
				"Name": "Stage",
			}),
		}),
	})
}

func TestServerErrorThresholdZeroDisablesAlarm(t *testing.T) {
	stack := testStack()
	api := newRestApi(stack)
	w := watchful.NewWatchful(stack, jsii.String("Watchful"), nil)
	w.WatchApiGateway(jsii.String("Api"), api, &watchful.WatchApiGatewayOptions{
		ServerErrorThreshold: jsii.Number(0),
	})

	template := assertions.Template_FromStack(stack, nil)
	template.ResourceCountIs(jsii.String("AWS::CloudWatch::Alarm"), jsii.Number(0))
}

func TestServerErrorThresholdOverride(t *testing.T) {
	stack := testStack()
	api := newRestApi(stack)
	w := watchful.NewWatchful(stack, jsii.String("Watchful"), nil)
	w.WatchApiGateway(jsii.String("Api"), api, &watchful.WatchApiGatewayOptions{
		ServerErrorThreshold: jsii.Number(10),
	})

	template := assertions.Template_FromStack(stack, nil)
	template.HasResourceProperties(jsii.String("AWS::CloudWatch::Alarm"), map[string]interface{}{
		"MetricName": "5XXError",
		"Threshold":  10,
	})
}

func TestWatchedOperationsAndCacheGraphSynthesize(t *testing.T) {
	stack := testStack()
	api := newRestApi(stack)
	w := watchful.NewWatchful(stack, jsii.String("Watchful"), nil)
	w.WatchApiGateway(jsii.String("Api"), api, &watchful.WatchApiGatewayOptions{
		CacheGraph: jsii.Bool(true),
		WatchedOperations: &[]*watchful.WatchedOperation{
			{HttpMethod: jsii.String("GET"), ResourcePath: jsii.String("/orders")},
			{HttpMethod: jsii.String("POST"), ResourcePath: jsii.String("/orders")},
		},
	})

	template := assertions.Template_FromStack(stack, nil)
	template.ResourceCountIs(jsii.String("AWS::CloudWatch::Dashboard"), jsii.Number(1))
}
