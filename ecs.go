package watchful

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudwatch"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsecs"
	"github.com/aws/aws-cdk-go/awscdk/v2/awselasticloadbalancingv2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

const defaultEcsResourceThresholdPercent = 80

// WatchEcsServiceOptions tune the alarms of a watched ECS service. The
// request related thresholds default to 0, which keeps the graph but skips
// the alarm.
type WatchEcsServiceOptions struct {
	// CpuMaximumThresholdPercent alarms when service CPU utilization
	// crosses this percentage. Defaults to 80.
	CpuMaximumThresholdPercent *float64 `json:"cpuMaximumThresholdPercent,omitempty"`
	// MemoryMaximumThresholdPercent alarms when service memory utilization
	// crosses this percentage. Defaults to 80.
	MemoryMaximumThresholdPercent *float64 `json:"memoryMaximumThresholdPercent,omitempty"`
	// TargetResponseTimeThreshold alarms when the load balancer measures a
	// slower average response, in seconds.
	TargetResponseTimeThreshold *float64 `json:"targetResponseTimeThreshold,omitempty"`
	// RequestsThreshold alarms above this request count per five minutes.
	RequestsThreshold *float64 `json:"requestsThreshold,omitempty"`
	// RequestsErrorRateThreshold alarms when the percentage of 5XX
	// responses crosses this value.
	RequestsErrorRateThreshold *float64 `json:"requestsErrorRateThreshold,omitempty"`
}

// WatchEcsServiceProps are the full inputs for NewWatchEcsService. Exactly
// one of Ec2Service or FargateService must be set.
type WatchEcsServiceProps struct {
	WatchEcsServiceOptions
	// Title headlines the dashboard section of this service.
	Title *string `json:"title"`
	// Watchful receives the widgets and alarms this watcher creates.
	Watchful IWatchful `json:"watchful"`
	// Ec2Service is the watched EC2 backed service.
	Ec2Service awsecs.Ec2Service `json:"ec2Service,omitempty"`
	// FargateService is the watched Fargate service.
	FargateService awsecs.FargateService `json:"fargateService,omitempty"`
	// TargetGroup is the application load balancer target group routing to
	// the service.
	TargetGroup awselasticloadbalancingv2.ApplicationTargetGroup `json:"targetGroup"`
}

// WatchEcsService monitors one load balanced ECS service: task CPU and
// memory on the ECS side, response time, request volume, healthy host count
// and error rate on the load balancer side.
type WatchEcsService struct {
	constructs.Construct
	watchful    IWatchful
	targetGroup awselasticloadbalancingv2.ApplicationTargetGroup
	clusterName *string
	serviceName *string
}

// NewWatchEcsService attaches service monitoring under scope.
func NewWatchEcsService(scope constructs.Construct, id *string, props *WatchEcsServiceProps) *WatchEcsService {
	var service awsecs.BaseService
	switch {
	case props.Ec2Service != nil && props.FargateService != nil:
		panic("watchful: Ec2Service and FargateService are mutually exclusive")
	case props.Ec2Service != nil:
		service = props.Ec2Service
	case props.FargateService != nil:
		service = props.FargateService
	default:
		panic("watchful: one of Ec2Service or FargateService is required")
	}

	this := constructs.NewConstruct(scope, id)
	watch := &WatchEcsService{
		Construct:   this,
		watchful:    props.Watchful,
		targetGroup: props.TargetGroup,
		clusterName: service.Cluster().ClusterName(),
		serviceName: service.ServiceName(),
	}

	watch.watchful.AddSection(props.Title, &SectionOptions{
		Links: &[]*QuickLink{
			{Title: jsii.String("Amazon ECS Console"), Url: jsii.String(ecsServiceLink(this, watch.clusterName, watch.serviceName))},
		},
	})

	cpu := watch.serviceMetric("CPUUtilization")
	cpuAlarm := watch.utilizationAlarm("CpuAlarm", cpu, props.CpuMaximumThresholdPercent, "CPU")
	memory := watch.serviceMetric("MemoryUtilization")
	memoryAlarm := watch.utilizationAlarm("MemoryAlarm", memory, props.MemoryMaximumThresholdPercent, "Memory")

	responseTime := watch.targetMetric("TargetResponseTime", "Average")
	var responseTimeAlarm awscloudwatch.Alarm
	if props.TargetResponseTimeThreshold != nil && *props.TargetResponseTimeThreshold > 0 {
		responseTimeAlarm = responseTime.CreateAlarm(this, jsii.String("ResponseTimeAlarm"), &awscloudwatch.CreateAlarmOptions{
			AlarmDescription:   jsii.String(fmt.Sprintf("Average response time over %vs", *props.TargetResponseTimeThreshold)),
			Threshold:          props.TargetResponseTimeThreshold,
			ComparisonOperator: awscloudwatch.ComparisonOperator_GREATER_THAN_THRESHOLD,
			EvaluationPeriods:  jsii.Number(3),
			TreatMissingData:   awscloudwatch.TreatMissingData_NOT_BREACHING,
		})
		watch.watchful.AddAlarm(responseTimeAlarm)
	}

	requests := watch.targetMetric("RequestCount", "Sum")
	var requestsAlarm awscloudwatch.Alarm
	if props.RequestsThreshold != nil && *props.RequestsThreshold > 0 {
		requestsAlarm = requests.CreateAlarm(this, jsii.String("RequestsAlarm"), &awscloudwatch.CreateAlarmOptions{
			AlarmDescription:   jsii.String(fmt.Sprintf("Over %v requests in 5 minutes", *props.RequestsThreshold)),
			Threshold:          props.RequestsThreshold,
			ComparisonOperator: awscloudwatch.ComparisonOperator_GREATER_THAN_THRESHOLD,
			EvaluationPeriods:  jsii.Number(3),
			TreatMissingData:   awscloudwatch.TreatMissingData_NOT_BREACHING,
		})
		watch.watchful.AddAlarm(requestsAlarm)
	}

	serverErrors := watch.targetMetric("HTTPCode_Target_5XX_Count", "Sum")
	errorRate := awscloudwatch.NewMathExpression(&awscloudwatch.MathExpressionProps{
		Expression: jsii.String("serverErrors / requests * 100"),
		UsingMetrics: &map[string]awscloudwatch.IMetric{
			"serverErrors": serverErrors,
			"requests":     requests,
		},
		Label:  jsii.String("Error rate"),
		Period: awscdk.Duration_Minutes(jsii.Number(5)),
	})
	var errorRateAlarm awscloudwatch.Alarm
	if props.RequestsErrorRateThreshold != nil && *props.RequestsErrorRateThreshold > 0 {
		errorRateAlarm = errorRate.CreateAlarm(this, jsii.String("ErrorRateAlarm"), &awscloudwatch.CreateAlarmOptions{
			AlarmDescription:   jsii.String(fmt.Sprintf("Over %v%% of requests fail with a server error", *props.RequestsErrorRateThreshold)),
			Threshold:          props.RequestsErrorRateThreshold,
			ComparisonOperator: awscloudwatch.ComparisonOperator_GREATER_THAN_THRESHOLD,
			EvaluationPeriods:  jsii.Number(3),
			TreatMissingData:   awscloudwatch.TreatMissingData_NOT_BREACHING,
		})
		watch.watchful.AddAlarm(errorRateAlarm)
	}

	watch.watchful.AddWidgets(
		metricGraph("CPU Utilization", jsii.Number(12), cpuAlarm, cpu),
		metricGraph("Memory Utilization", jsii.Number(12), memoryAlarm, memory),
	)
	watch.watchful.AddWidgets(
		metricGraph("Target Response Time", jsii.Number(12), responseTimeAlarm, responseTime),
		metricGraph("Requests", jsii.Number(12), requestsAlarm, requests),
	)
	watch.watchful.AddWidgets(
		metricGraph("Healthy Hosts", jsii.Number(8), nil,
			watch.targetMetric("HealthyHostCount", "Minimum").With(&awscloudwatch.MetricOptions{Label: jsii.String("Healthy")}),
			watch.targetMetric("UnHealthyHostCount", "Maximum").With(&awscloudwatch.MetricOptions{Label: jsii.String("Unhealthy")}),
		),
		metricGraph("Server Errors", jsii.Number(8), nil, serverErrors),
		metricGraph("Error Rate", jsii.Number(8), errorRateAlarm, errorRate),
	)
	return watch
}

func (watch *WatchEcsService) utilizationAlarm(id string, metric awscloudwatch.Metric, thresholdPercent *float64, resource string) awscloudwatch.Alarm {
	if thresholdPercent == nil {
		thresholdPercent = jsii.Number(defaultEcsResourceThresholdPercent)
	}
	alarm := metric.CreateAlarm(watch.Construct, jsii.String(id), &awscloudwatch.CreateAlarmOptions{
		AlarmDescription:   jsii.String(fmt.Sprintf("%s utilization over %v%%", resource, *thresholdPercent)),
		Threshold:          thresholdPercent,
		ComparisonOperator: awscloudwatch.ComparisonOperator_GREATER_THAN_OR_EQUAL_TO_THRESHOLD,
		EvaluationPeriods:  jsii.Number(3),
		TreatMissingData:   awscloudwatch.TreatMissingData_NOT_BREACHING,
	})
	watch.watchful.AddAlarm(alarm)
	return alarm
}

func (watch *WatchEcsService) serviceMetric(name string) awscloudwatch.Metric {
	return awscloudwatch.NewMetric(&awscloudwatch.MetricProps{
		Namespace:  jsii.String("AWS/ECS"),
		MetricName: jsii.String(name),
		DimensionsMap: &map[string]*string{
			"ClusterName": watch.clusterName,
			"ServiceName": watch.serviceName,
		},
		Statistic: jsii.String("Average"),
		Period:    awscdk.Duration_Minutes(jsii.Number(5)),
	})
}

func (watch *WatchEcsService) targetMetric(name string, statistic string) awscloudwatch.Metric {
	return awscloudwatch.NewMetric(&awscloudwatch.MetricProps{
		Namespace:  jsii.String("AWS/ApplicationELB"),
		MetricName: jsii.String(name),
		DimensionsMap: &map[string]*string{
			"TargetGroup":  watch.targetGroup.TargetGroupFullName(),
			"LoadBalancer": watch.targetGroup.FirstLoadBalancerFullName(),
		},
		Statistic: jsii.String(statistic),
		Period:    awscdk.Duration_Minutes(jsii.Number(5)),
	})
}
