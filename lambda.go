package watchful

import (
	"fmt"
	"math"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudwatch"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

const (
	defaultDurationThresholdPercent = 80
	// Lambda applies this timeout when a function does not set one.
	lambdaDefaultTimeoutSec = 3
)

// WatchLambdaFunctionOptions tune the alarms of a watched function.
type WatchLambdaFunctionOptions struct {
	// ErrorsPerMinuteThreshold alarms when errors per minute stay above this
	// value. Defaults to 0, so any error alarms.
	ErrorsPerMinuteThreshold *float64 `json:"errorsPerMinuteThreshold,omitempty"`
	// ThrottlesPerMinuteThreshold alarms when throttles per minute stay
	// above this value. Defaults to 0.
	ThrottlesPerMinuteThreshold *float64 `json:"throttlesPerMinuteThreshold,omitempty"`
	// DurationThresholdPercent alarms when p99 duration crosses this
	// percentage of the function timeout. Defaults to 80.
	DurationThresholdPercent *float64 `json:"durationThresholdPercent,omitempty"`
}

// WatchLambdaFunctionProps are the full inputs for NewWatchLambdaFunction.
type WatchLambdaFunctionProps struct {
	WatchLambdaFunctionOptions
	// Title headlines the dashboard section of this function.
	Title *string `json:"title"`
	// Watchful receives the widgets and alarms this watcher creates.
	Watchful IWatchful `json:"watchful"`
	// Fn is the watched function.
	Fn awslambda.Function `json:"fn"`
}

// WatchLambdaFunction monitors one Lambda function: invocations, errors,
// throttles and p99 duration, with alarms on the last three.
type WatchLambdaFunction struct {
	constructs.Construct
	watchful IWatchful
	fn       awslambda.Function
}

// NewWatchLambdaFunction attaches function monitoring under scope.
func NewWatchLambdaFunction(scope constructs.Construct, id *string, props *WatchLambdaFunctionProps) *WatchLambdaFunction {
	this := constructs.NewConstruct(scope, id)
	watch := &WatchLambdaFunction{Construct: this, watchful: props.Watchful, fn: props.Fn}

	watch.watchful.AddSection(props.Title, &SectionOptions{
		Links: &[]*QuickLink{
			{Title: jsii.String("AWS Lambda Console"), Url: jsii.String(lambdaFunctionLink(this, props.Fn))},
			{Title: jsii.String("CloudWatch Logs"), Url: jsii.String(lambdaLogsLink(this, props.Fn))},
		},
	})

	invocations := watch.fn.MetricInvocations(&awscloudwatch.MetricOptions{
		Period: awscdk.Duration_Minutes(jsii.Number(5)),
	})
	errors, errorsAlarm := watch.errorsMonitor(props.ErrorsPerMinuteThreshold)
	throttles, throttlesAlarm := watch.throttlesMonitor(props.ThrottlesPerMinuteThreshold)
	duration, durationAlarm := watch.durationMonitor(props.DurationThresholdPercent)

	watch.watchful.AddWidgets(
		functionGraph("Invocations", invocations, nil),
		functionGraph("Errors", errors, errorsAlarm),
		functionGraph("Throttles", throttles, throttlesAlarm),
		functionGraph("Duration", duration, durationAlarm),
	)
	return watch
}

func (watch *WatchLambdaFunction) errorsMonitor(threshold *float64) (awscloudwatch.Metric, awscloudwatch.Alarm) {
	if threshold == nil {
		threshold = jsii.Number(0)
	}
	errors := watch.fn.MetricErrors(&awscloudwatch.MetricOptions{
		Period: awscdk.Duration_Minutes(jsii.Number(1)),
	})
	alarm := errors.CreateAlarm(watch.Construct, jsii.String("ErrorsAlarm"), &awscloudwatch.CreateAlarmOptions{
		AlarmDescription:   jsii.String(fmt.Sprintf("Over %v errors per minute", *threshold)),
		Threshold:          threshold,
		ComparisonOperator: awscloudwatch.ComparisonOperator_GREATER_THAN_THRESHOLD,
		EvaluationPeriods:  jsii.Number(3),
		TreatMissingData:   awscloudwatch.TreatMissingData_NOT_BREACHING,
	})
	watch.watchful.AddAlarm(alarm)
	return errors, alarm
}

func (watch *WatchLambdaFunction) throttlesMonitor(threshold *float64) (awscloudwatch.Metric, awscloudwatch.Alarm) {
	if threshold == nil {
		threshold = jsii.Number(0)
	}
	throttles := watch.fn.MetricThrottles(&awscloudwatch.MetricOptions{
		Period: awscdk.Duration_Minutes(jsii.Number(1)),
	})
	alarm := throttles.CreateAlarm(watch.Construct, jsii.String("ThrottlesAlarm"), &awscloudwatch.CreateAlarmOptions{
		AlarmDescription:   jsii.String(fmt.Sprintf("Over %v throttles per minute", *threshold)),
		Threshold:          threshold,
		ComparisonOperator: awscloudwatch.ComparisonOperator_GREATER_THAN_THRESHOLD,
		EvaluationPeriods:  jsii.Number(3),
		TreatMissingData:   awscloudwatch.TreatMissingData_NOT_BREACHING,
	})
	watch.watchful.AddAlarm(alarm)
	return throttles, alarm
}

func (watch *WatchLambdaFunction) durationMonitor(thresholdPercent *float64) (awscloudwatch.Metric, awscloudwatch.Alarm) {
	if thresholdPercent == nil {
		thresholdPercent = jsii.Number(defaultDurationThresholdPercent)
	}
	timeoutSec := functionTimeoutSec(watch.fn)
	thresholdMillis := math.Floor(*thresholdPercent/100*timeoutSec) * 1000
	duration := watch.fn.MetricDuration(&awscloudwatch.MetricOptions{
		Statistic: jsii.String("p99"),
		Period:    awscdk.Duration_Minutes(jsii.Number(5)),
	})
	alarm := duration.CreateAlarm(watch.Construct, jsii.String("DurationAlarm"), &awscloudwatch.CreateAlarmOptions{
		AlarmDescription:   jsii.String(fmt.Sprintf("p99 duration over %vs (%v%% of timeout)", thresholdMillis/1000, *thresholdPercent)),
		Threshold:          jsii.Number(thresholdMillis),
		ComparisonOperator: awscloudwatch.ComparisonOperator_GREATER_THAN_THRESHOLD,
		EvaluationPeriods:  jsii.Number(3),
		TreatMissingData:   awscloudwatch.TreatMissingData_NOT_BREACHING,
	})
	watch.watchful.AddAlarm(alarm)
	return duration, alarm
}

// functionTimeoutSec reads the configured timeout in seconds off the
// CloudFormation layer.
func functionTimeoutSec(fn awslambda.Function) float64 {
	cfnFunction, ok := fn.Node().DefaultChild().(awslambda.CfnFunction)
	if !ok || cfnFunction.Timeout() == nil {
		return lambdaDefaultTimeoutSec
	}
	return *cfnFunction.Timeout()
}

func functionGraph(name string, metric awscloudwatch.Metric, alarm awscloudwatch.Alarm) awscloudwatch.GraphWidget {
	props := &awscloudwatch.GraphWidgetProps{
		Title: jsii.String(fmt.Sprintf("%s/%vmin", name, *metric.Period().ToMinutes(nil))),
		Width: jsii.Number(6),
		Left:  &[]awscloudwatch.IMetric{metric},
	}
	if alarm != nil {
		props.LeftAnnotations = &[]*awscloudwatch.HorizontalAnnotation{alarm.ToAnnotation()}
	}
	return awscloudwatch.NewGraphWidget(props)
}
