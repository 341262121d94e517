package watchful_test

import (
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/jsii-runtime-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/30Piraten/watchful"
)

func newInlineFunction(stack awscdk.Stack, id string, timeout awscdk.Duration) awslambda.Function {
	return awslambda.NewFunction(stack, jsii.String(id), &awslambda.FunctionProps{
		Runtime: awslambda.Runtime_NODEJS_18_X(),
		Handler: jsii.String("index.handler"),
		Code:    awslambda.Code_FromInline(jsii.String("exports.handler = async () => {};")),
		Timeout: timeout,
	})
}

func TestFunctionGetsErrorThrottleAndDurationAlarms(t *testing.T) {
	stack := testStack()
	fn := newInlineFunction(stack, "Handler", awscdk.Duration_Minutes(jsii.Number(1)))
	w := watchful.NewWatchful(stack, jsii.String("Watchful"), nil)
	w.WatchLambdaFunction(jsii.String("Handler"), fn, nil)

	template := assertions.Template_FromStack(stack, nil)
	template.ResourceCountIs(jsii.String("AWS::CloudWatch::Alarm"), jsii.Number(3))

	template.HasResourceProperties(jsii.String("AWS::CloudWatch::Alarm"), map[string]interface{}{
		"Namespace":          "AWS/Lambda",
		"MetricName":         "Errors",
		"Statistic":          "Sum",
		"Period":             60,
		"Threshold":          0,
		"EvaluationPeriods":  3,
		"ComparisonOperator": "GreaterThanThreshold",
	})
	template.HasResourceProperties(jsii.String("AWS::CloudWatch::Alarm"), map[string]interface{}{
		"MetricName": "Throttles",
		"Statistic":  "Sum",
		"Period":     60,
		"Threshold":  0,
	})
}

func TestDurationAlarmDerivesFromTimeout(t *testing.T) {
	stack := testStack()
	fn := newInlineFunction(stack, "Handler", awscdk.Duration_Minutes(jsii.Number(1)))
	w := watchful.NewWatchful(stack, jsii.String("Watchful"), nil)
	w.WatchLambdaFunction(jsii.String("Handler"), fn, nil)

	// 80% of the 60s timeout, in milliseconds
	template := assertions.Template_FromStack(stack, nil)
	template.HasResourceProperties(jsii.String("AWS::CloudWatch::Alarm"), map[string]interface{}{
		"MetricName":        "Duration",
		"ExtendedStatistic": "p99",
		"Threshold":         48000,
	})
}

func TestDurationAlarmUsesLambdaDefaultTimeout(t *testing.T) {
	stack := testStack()
	fn := newInlineFunction(stack, "Handler", nil)
	w := watchful.NewWatchful(stack, jsii.String("Watchful"), nil)
	w.WatchLambdaFunction(jsii.String("Handler"), fn, nil)

	// 80% of the implicit 3s timeout
	template := assertions.Template_FromStack(stack, nil)
	template.HasResourceProperties(jsii.String("AWS::CloudWatch::Alarm"), map[string]interface{}{
		"MetricName": "Duration",
		"Threshold":  2000,
	})
}

func TestFunctionThresholdOverrides(t *testing.T) {
	stack := testStack()
	fn := newInlineFunction(stack, "Handler", awscdk.Duration_Minutes(jsii.Number(1)))
	w := watchful.NewWatchful(stack, jsii.String("Watchful"), nil)
	w.WatchLambdaFunction(jsii.String("Handler"), fn, &watchful.WatchLambdaFunctionOptions{
		ErrorsPerMinuteThreshold:    jsii.Number(5),
		ThrottlesPerMinuteThreshold: jsii.Number(2),
		DurationThresholdPercent:    jsii.Number(50),
	})

	template := assertions.Template_FromStack(stack, nil)
	template.HasResourceProperties(jsii.String("AWS::CloudWatch::Alarm"), map[string]interface{}{
		"MetricName": "Errors",
		"Threshold":  5,
	})
	template.HasResourceProperties(jsii.String("AWS::CloudWatch::Alarm"), map[string]interface{}{
		"MetricName": "Throttles",
		"Threshold":  2,
	})
	template.HasResourceProperties(jsii.String("AWS::CloudWatch::Alarm"), map[string]interface{}{
		"MetricName": "Duration",
		"Threshold":  30000,
	})
}

func TestFunctionAlarmsNotifyTopic(t *testing.T) {
	stack := testStack()
	fn := newInlineFunction(stack, "Handler", awscdk.Duration_Minutes(jsii.Number(1)))
	w := watchful.NewWatchful(stack, jsii.String("Watchful"), &watchful.WatchfulProps{
		AlarmEmail: jsii.String("alarms@example.com"),
	})
	w.WatchLambdaFunction(jsii.String("Handler"), fn, nil)

	template := assertions.Template_FromStack(stack, nil)
	alarms := template.FindResources(jsii.String("AWS::CloudWatch::Alarm"), nil)
	require.Len(t, *alarms, 3)
	for _, resource := range *alarms {
		props := (*resource)["Properties"].(map[string]interface{})
		actions, ok := props["AlarmActions"].([]interface{})
		require.True(t, ok)
		assert.Len(t, actions, 1)
	}
}
