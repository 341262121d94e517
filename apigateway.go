package watchful

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigateway"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudwatch"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

const defaultServerErrorThreshold = 1

// WatchApiGatewayOptions tune what a watched REST API reports.
type WatchApiGatewayOptions struct {
	// ServerErrorThreshold alarms when 5XX responses over five minutes reach
	// this count. Defaults to 1. Zero disables the alarm.
	ServerErrorThreshold *float64 `json:"serverErrorThreshold,omitempty"`
	// CacheGraph adds a cache hit and miss widget for APIs with caching
	// enabled.
	CacheGraph *bool `json:"cacheGraph,omitempty"`
	// WatchedOperations adds a request and latency row per operation.
	WatchedOperations *[]*WatchedOperation `json:"watchedOperations,omitempty"`
}

// WatchedOperation identifies one REST operation by method and resource
// path, the dimensions API Gateway reports per method metrics under.
type WatchedOperation struct {
	HttpMethod   *string `json:"httpMethod"`
	ResourcePath *string `json:"resourcePath"`
}

// WatchApiGatewayProps are the full inputs for NewWatchApiGateway.
type WatchApiGatewayProps struct {
	WatchApiGatewayOptions
	// Title headlines the dashboard section of this API.
	Title *string `json:"title"`
	// Watchful receives the widgets and alarms this watcher creates.
	Watchful IWatchful `json:"watchful"`
	// RestApi is the watched API. Metrics are scoped to its deployment
	// stage.
	RestApi awsapigateway.RestApi `json:"restApi"`
}

// WatchApiGateway monitors one REST API stage: request volume, latency
// percentiles and error counts, with an alarm on server errors.
type WatchApiGateway struct {
	constructs.Construct
	watchful IWatchful
	api      awsapigateway.RestApi
	stage    *string
}

// NewWatchApiGateway attaches API monitoring under scope.
func NewWatchApiGateway(scope constructs.Construct, id *string, props *WatchApiGatewayProps) *WatchApiGateway {
	this := constructs.NewConstruct(scope, id)
	watch := &WatchApiGateway{
		Construct: this,
		watchful:  props.Watchful,
		api:       props.RestApi,
		stage:     props.RestApi.DeploymentStage().StageName(),
	}

	watch.watchful.AddSection(props.Title, &SectionOptions{
		Links: &[]*QuickLink{
			{Title: jsii.String("Amazon API Gateway Console"), Url: jsii.String(apiGatewayLink(this, props.RestApi))},
		},
	})

	threshold := props.ServerErrorThreshold
	if threshold == nil {
		threshold = jsii.Number(defaultServerErrorThreshold)
	}
	if *threshold > 0 {
		alarm := watch.apiMetric("5XXError", "Sum", nil).CreateAlarm(this, jsii.String("5XXErrorAlarm"), &awscloudwatch.CreateAlarmOptions{
			AlarmDescription:   jsii.String(fmt.Sprintf("%v or more server errors in 5 minutes", *threshold)),
			Threshold:          threshold,
			ComparisonOperator: awscloudwatch.ComparisonOperator_GREATER_THAN_OR_EQUAL_TO_THRESHOLD,
			EvaluationPeriods:  jsii.Number(1),
			TreatMissingData:   awscloudwatch.TreatMissingData_NOT_BREACHING,
		})
		watch.watchful.AddAlarm(alarm)
	}

	watch.watchful.AddWidgets(watch.requestsGraph(nil), watch.latencyGraph(nil))

	secondRow := []awscloudwatch.IWidget{watch.errorsGraph()}
	if props.CacheGraph != nil && *props.CacheGraph {
		secondRow = append(secondRow, watch.cacheGraph())
	}
	watch.watchful.AddWidgets(secondRow...)

	if props.WatchedOperations != nil {
		for _, operation := range *props.WatchedOperations {
			watch.watchful.AddWidgets(watch.requestsGraph(operation), watch.latencyGraph(operation))
		}
	}
	return watch
}

// apiMetric builds a stage scoped metric, narrowed further to one operation
// when op is set.
func (watch *WatchApiGateway) apiMetric(name string, statistic string, op *WatchedOperation) awscloudwatch.Metric {
	dimensions := map[string]*string{
		"ApiName": watch.api.RestApiName(),
		"Stage":   watch.stage,
	}
	if op != nil {
		dimensions["Method"] = op.HttpMethod
		dimensions["Resource"] = op.ResourcePath
	}
	return awscloudwatch.NewMetric(&awscloudwatch.MetricProps{
		Namespace:     jsii.String("AWS/ApiGateway"),
		MetricName:    jsii.String(name),
		DimensionsMap: &dimensions,
		Statistic:     jsii.String(statistic),
		Period:        awscdk.Duration_Minutes(jsii.Number(5)),
	})
}

func (watch *WatchApiGateway) requestsGraph(op *WatchedOperation) awscloudwatch.GraphWidget {
	return awscloudwatch.NewGraphWidget(&awscloudwatch.GraphWidgetProps{
		Title: jsii.String(operationTitle("Requests", op)),
		Width: jsii.Number(12),
		Left: &[]awscloudwatch.IMetric{
			watch.apiMetric("Count", "Sum", op).With(&awscloudwatch.MetricOptions{Label: jsii.String("Requests")}),
		},
	})
}

func (watch *WatchApiGateway) latencyGraph(op *WatchedOperation) awscloudwatch.GraphWidget {
	percentiles := make([]awscloudwatch.IMetric, 0, 3)
	for _, stat := range []string{"p50", "p90", "p99"} {
		percentiles = append(percentiles, watch.apiMetric("Latency", stat, op).With(&awscloudwatch.MetricOptions{
			Label: jsii.String(stat),
		}))
	}
	return awscloudwatch.NewGraphWidget(&awscloudwatch.GraphWidgetProps{
		Title: jsii.String(operationTitle("Latency", op)),
		Width: jsii.Number(12),
		Left:  &percentiles,
	})
}

func (watch *WatchApiGateway) errorsGraph() awscloudwatch.GraphWidget {
	return awscloudwatch.NewGraphWidget(&awscloudwatch.GraphWidgetProps{
		Title: jsii.String("Errors/5min"),
		Width: jsii.Number(12),
		Left: &[]awscloudwatch.IMetric{
			watch.apiMetric("4XXError", "Sum", nil).With(&awscloudwatch.MetricOptions{Label: jsii.String("4XX")}),
			watch.apiMetric("5XXError", "Sum", nil).With(&awscloudwatch.MetricOptions{Label: jsii.String("5XX")}),
		},
	})
}

func (watch *WatchApiGateway) cacheGraph() awscloudwatch.GraphWidget {
	return awscloudwatch.NewGraphWidget(&awscloudwatch.GraphWidgetProps{
		Title: jsii.String("Cache/5min"),
		Width: jsii.Number(12),
		Left: &[]awscloudwatch.IMetric{
			watch.apiMetric("CacheHitCount", "Sum", nil).With(&awscloudwatch.MetricOptions{Label: jsii.String("Hits")}),
			watch.apiMetric("CacheMissCount", "Sum", nil).With(&awscloudwatch.MetricOptions{Label: jsii.String("Misses")}),
		},
	})
}

func operationTitle(kind string, op *WatchedOperation) string {
	if op == nil {
		return fmt.Sprintf("%s/5min", kind)
	}
	return fmt.Sprintf("%s %s %s/5min", *op.HttpMethod, *op.ResourcePath, kind)
}
