// Package watchful wires CloudWatch monitoring onto the AWS resources of a
// CDK application. A single Watchful construct owns one dashboard and one
// alarm destination; per resource watchers register their widgets and alarms
// against it, either explicitly through the WatchXxx methods or automatically
// through WatchScope.
package watchful

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigateway"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudwatch"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudwatchactions"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsdynamodb"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsecs"
	"github.com/aws/aws-cdk-go/awscdk/v2/awselasticloadbalancingv2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsrds"
	"github.com/aws/aws-cdk-go/awscdk/v2/awssns"
	"github.com/aws/aws-cdk-go/awscdk/v2/awssnssubscriptions"
	"github.com/aws/aws-cdk-go/awscdk/v2/awssqs"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// IWatchful is the contract watchers use to publish what they create. The
// Watchful construct implements it; tests can substitute their own recorder.
type IWatchful interface {
	// AddWidgets appends a row of widgets to the dashboard.
	AddWidgets(widgets ...awscloudwatch.IWidget)
	// AddAlarm routes an alarm to the configured destinations.
	AddAlarm(alarm awscloudwatch.Alarm)
	// AddSection adds a markdown header row for the widgets that follow.
	AddSection(title *string, options *SectionOptions)
}

// WatchfulProps configure the Watchful root construct.
type WatchfulProps struct {
	// AlarmEmail subscribes an email address to alarm notifications. A topic
	// is created unless AlarmSns supplies one.
	AlarmEmail *string `json:"alarmEmail,omitempty"`
	// AlarmSqs subscribes a queue to alarm notifications. A topic is created
	// unless AlarmSns supplies one.
	AlarmSqs awssqs.IQueue `json:"alarmSqs,omitempty"`
	// AlarmSns is an existing topic to notify instead of creating one.
	AlarmSns awssns.ITopic `json:"alarmSns,omitempty"`
	// AlarmActionArns are attached verbatim as actions on every alarm, in
	// addition to the topic notification.
	AlarmActionArns *[]*string `json:"alarmActionArns,omitempty"`
	// DashboardName names the dashboard. Only valid while Dashboard is
	// enabled.
	DashboardName *string `json:"dashboardName,omitempty"`
	// Dashboard toggles dashboard creation. Defaults to true.
	Dashboard *bool `json:"dashboard,omitempty"`
}

// Watchful is the root of a monitoring setup. It resolves the alarm topic,
// optionally creates the dashboard and exports its console URL, and hands
// out watchers for the supported resource types.
type Watchful struct {
	constructs.Construct
	dash            awscloudwatch.Dashboard
	alarmTopic      awssns.ITopic
	alarmActionArns []*string
}

var _ IWatchful = (*Watchful)(nil)

// NewWatchful creates the monitoring root. With no props it creates a
// dashboard and nothing else; alarms then have no destination until one of
// the alarm props is set.
func NewWatchful(scope constructs.Construct, id *string, props *WatchfulProps) *Watchful {
	if props == nil {
		props = &WatchfulProps{}
	}
	this := constructs.NewConstruct(scope, id)
	w := &Watchful{Construct: this}

	switch {
	case props.AlarmSns != nil:
		w.alarmTopic = props.AlarmSns
	case props.AlarmEmail != nil || props.AlarmSqs != nil:
		w.alarmTopic = awssns.NewTopic(this, jsii.String("AlarmTopic"), &awssns.TopicProps{
			DisplayName: jsii.String("Watchful Alarms"),
		})
	}
	// Subscriptions attach to whichever topic won above, so an email or a
	// queue can fan in alongside a caller supplied topic.
	if w.alarmTopic != nil && props.AlarmEmail != nil {
		w.alarmTopic.AddSubscription(awssnssubscriptions.NewEmailSubscription(props.AlarmEmail, nil))
	}
	if w.alarmTopic != nil && props.AlarmSqs != nil {
		w.alarmTopic.AddSubscription(awssnssubscriptions.NewSqsSubscription(props.AlarmSqs, nil))
	}
	if props.AlarmActionArns != nil {
		w.alarmActionArns = *props.AlarmActionArns
	}

	if props.Dashboard == nil || *props.Dashboard {
		w.dash = awscloudwatch.NewDashboard(this, jsii.String("Dashboard"), &awscloudwatch.DashboardProps{
			DashboardName: props.DashboardName,
		})
		awscdk.NewCfnOutput(this, jsii.String("WatchfulDashboard"), &awscdk.CfnOutputProps{
			Value: jsii.String(dashboardLink(this, w.dash)),
		})
	} else if props.DashboardName != nil {
		panic("watchful: DashboardName requires the dashboard; leave Dashboard unset or enable it")
	}

	return w
}

// AddWidgets appends a row of widgets to the dashboard. Without a dashboard
// this does nothing, so watchers stay usable in an alarms only setup.
func (w *Watchful) AddWidgets(widgets ...awscloudwatch.IWidget) {
	if w.dash == nil {
		return
	}
	w.dash.AddWidgets(widgets...)
}

// AddAlarm attaches the configured action ARNs to the alarm and, when an
// alarm topic exists, a notification to that topic.
func (w *Watchful) AddAlarm(alarm awscloudwatch.Alarm) {
	for _, arn := range w.alarmActionArns {
		alarm.AddAlarmAction(&arnAlarmAction{arn: arn})
	}
	if w.alarmTopic != nil {
		alarm.AddAlarmAction(awscloudwatchactions.NewSnsAction(w.alarmTopic))
	}
}

// AddSection adds a full width markdown header, optionally with console
// quick links.
func (w *Watchful) AddSection(title *string, options *SectionOptions) {
	if options == nil {
		options = &SectionOptions{}
	}
	w.AddWidgets(NewSectionWidget(&SectionWidgetProps{Title: title, Links: options.Links}))
}

// WatchScope watches every supported resource under scope. See
// WatchfulAspectProps for opting resource types out.
func (w *Watchful) WatchScope(scope constructs.Construct, props *WatchfulAspectProps) {
	awscdk.Aspects_Of(scope).Add(NewWatchfulAspect(w, props), nil)
}

// WatchDynamoTable monitors a DynamoDB table. See WatchDynamoTable for the
// widgets and alarms this creates.
func (w *Watchful) WatchDynamoTable(title *string, table awsdynamodb.Table, options *WatchDynamoTableOptions) *WatchDynamoTable {
	if options == nil {
		options = &WatchDynamoTableOptions{}
	}
	return NewWatchDynamoTable(w.Construct, table.Node().Addr(), &WatchDynamoTableProps{
		WatchDynamoTableOptions: *options,
		Title:                   title,
		Watchful:                w,
		Table:                   table,
	})
}

// WatchApiGateway monitors a REST API stage.
func (w *Watchful) WatchApiGateway(title *string, restApi awsapigateway.RestApi, options *WatchApiGatewayOptions) *WatchApiGateway {
	if options == nil {
		options = &WatchApiGatewayOptions{}
	}
	return NewWatchApiGateway(w.Construct, restApi.Node().Addr(), &WatchApiGatewayProps{
		WatchApiGatewayOptions: *options,
		Title:                  title,
		Watchful:               w,
		RestApi:                restApi,
	})
}

// WatchLambdaFunction monitors a Lambda function.
func (w *Watchful) WatchLambdaFunction(title *string, fn awslambda.Function, options *WatchLambdaFunctionOptions) *WatchLambdaFunction {
	if options == nil {
		options = &WatchLambdaFunctionOptions{}
	}
	return NewWatchLambdaFunction(w.Construct, fn.Node().Addr(), &WatchLambdaFunctionProps{
		WatchLambdaFunctionOptions: *options,
		Title:                      title,
		Watchful:                   w,
		Fn:                         fn,
	})
}

// WatchRdsAuroraCluster monitors an Aurora database cluster.
func (w *Watchful) WatchRdsAuroraCluster(title *string, cluster awsrds.DatabaseCluster, options *WatchRdsAuroraOptions) *WatchRdsAurora {
	if options == nil {
		options = &WatchRdsAuroraOptions{}
	}
	return NewWatchRdsAurora(w.Construct, cluster.Node().Addr(), &WatchRdsAuroraProps{
		WatchRdsAuroraOptions: *options,
		Title:                 title,
		Watchful:              w,
		Cluster:               cluster,
	})
}

// WatchFargateEcs monitors a Fargate service behind an application load
// balancer target group.
func (w *Watchful) WatchFargateEcs(title *string, service awsecs.FargateService, targetGroup awselasticloadbalancingv2.ApplicationTargetGroup, options *WatchEcsServiceOptions) *WatchEcsService {
	if options == nil {
		options = &WatchEcsServiceOptions{}
	}
	return NewWatchEcsService(w.Construct, service.Node().Addr(), &WatchEcsServiceProps{
		WatchEcsServiceOptions: *options,
		Title:                  title,
		Watchful:               w,
		FargateService:         service,
		TargetGroup:            targetGroup,
	})
}

// WatchEc2Ecs monitors an EC2 backed ECS service behind an application load
// balancer target group.
func (w *Watchful) WatchEc2Ecs(title *string, service awsecs.Ec2Service, targetGroup awselasticloadbalancingv2.ApplicationTargetGroup, options *WatchEcsServiceOptions) *WatchEcsService {
	if options == nil {
		options = &WatchEcsServiceOptions{}
	}
	return NewWatchEcsService(w.Construct, service.Node().Addr(), &WatchEcsServiceProps{
		WatchEcsServiceOptions: *options,
		Title:                  title,
		Watchful:               w,
		Ec2Service:             service,
		TargetGroup:            targetGroup,
	})
}

// arnAlarmAction attaches a raw action ARN to an alarm without knowing the
// service behind it. CloudWatch accepts any valid action ARN here.
type arnAlarmAction struct {
	arn *string
}

var _ awscloudwatch.IAlarmAction = (*arnAlarmAction)(nil)

func (a *arnAlarmAction) Bind(_ constructs.Construct, _ awscloudwatch.IAlarm) *awscloudwatch.AlarmActionConfig {
	return &awscloudwatch.AlarmActionConfig{AlarmActionArn: a.arn}
}
