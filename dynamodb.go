package watchful

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudwatch"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsdynamodb"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

const defaultCapacityThresholdPercent = 80

// WatchDynamoTableOptions tune the capacity alarms of a watched table.
type WatchDynamoTableOptions struct {
	// ReadCapacityThresholdPercent alarms when consumed read capacity
	// crosses this percentage of provisioned capacity. Defaults to 80.
	ReadCapacityThresholdPercent *float64 `json:"readCapacityThresholdPercent,omitempty"`
	// WriteCapacityThresholdPercent is the write side equivalent. Defaults
	// to 80.
	WriteCapacityThresholdPercent *float64 `json:"writeCapacityThresholdPercent,omitempty"`
}

// WatchDynamoTableProps are the full inputs for NewWatchDynamoTable.
type WatchDynamoTableProps struct {
	WatchDynamoTableOptions
	// Title headlines the dashboard section of this table.
	Title *string `json:"title"`
	// Watchful receives the widgets and alarms this watcher creates.
	Watchful IWatchful `json:"watchful"`
	// Table is the watched table.
	Table awsdynamodb.Table `json:"table"`
}

// WatchDynamoTable monitors one DynamoDB table. Provisioned tables get read
// and write capacity utilization graphs with threshold alarms; on demand
// tables get consumption graphs and a throttle alarm instead, since there is
// no provisioned ceiling to measure against.
type WatchDynamoTable struct {
	constructs.Construct
	watchful IWatchful
	table    awsdynamodb.Table
}

// NewWatchDynamoTable attaches table monitoring under scope.
func NewWatchDynamoTable(scope constructs.Construct, id *string, props *WatchDynamoTableProps) *WatchDynamoTable {
	this := constructs.NewConstruct(scope, id)
	watch := &WatchDynamoTable{Construct: this, watchful: props.Watchful, table: props.Table}

	watch.watchful.AddSection(props.Title, &SectionOptions{
		Links: &[]*QuickLink{
			{Title: jsii.String("Amazon DynamoDB Console"), Url: jsii.String(dynamoTableLink(this, props.Table))},
		},
	})

	if tableBillingMode(props.Table) == awsdynamodb.BillingMode_PAY_PER_REQUEST {
		watch.watchOnDemand()
	} else {
		watch.watchProvisioned(props.ReadCapacityThresholdPercent, props.WriteCapacityThresholdPercent)
	}
	return watch
}

// tableBillingMode reads the billing mode off the CloudFormation layer.
// Tables created without an explicit mode are provisioned.
func tableBillingMode(table awsdynamodb.Table) awsdynamodb.BillingMode {
	cfnTable, ok := table.Node().DefaultChild().(awsdynamodb.CfnTable)
	if !ok || cfnTable.BillingMode() == nil {
		return awsdynamodb.BillingMode_PROVISIONED
	}
	return awsdynamodb.BillingMode(*cfnTable.BillingMode())
}

func (watch *WatchDynamoTable) watchProvisioned(readThresholdPercent *float64, writeThresholdPercent *float64) {
	readUtilization := watch.capacityUtilization("Read")
	writeUtilization := watch.capacityUtilization("Write")

	readAlarm := watch.capacityAlarm("Read", readUtilization, readThresholdPercent)
	writeAlarm := watch.capacityAlarm("Write", writeUtilization, writeThresholdPercent)
	watch.watchful.AddAlarm(readAlarm)
	watch.watchful.AddAlarm(writeAlarm)

	watch.watchful.AddWidgets(
		capacityGraph("Read", readUtilization, readAlarm),
		capacityGraph("Write", writeUtilization, writeAlarm),
	)
}

func (watch *WatchDynamoTable) watchOnDemand() {
	consumed := []awscloudwatch.IMetric{
		watch.tableMetric("ConsumedReadCapacityUnits", "Sum"),
		watch.tableMetric("ConsumedWriteCapacityUnits", "Sum"),
	}
	throttles := awscloudwatch.NewMathExpression(&awscloudwatch.MathExpressionProps{
		Expression: jsii.String("readThrottles + writeThrottles"),
		UsingMetrics: &map[string]awscloudwatch.IMetric{
			"readThrottles":  watch.tableMetric("ReadThrottleEvents", "Sum"),
			"writeThrottles": watch.tableMetric("WriteThrottleEvents", "Sum"),
		},
		Label:  jsii.String("Throttle events"),
		Period: awscdk.Duration_Minutes(jsii.Number(5)),
	})
	throttleAlarm := throttles.CreateAlarm(watch.Construct, jsii.String("ThrottleAlarm"), &awscloudwatch.CreateAlarmOptions{
		AlarmDescription:   jsii.String("Read or write requests are being throttled"),
		Threshold:          jsii.Number(0),
		ComparisonOperator: awscloudwatch.ComparisonOperator_GREATER_THAN_THRESHOLD,
		EvaluationPeriods:  jsii.Number(1),
		TreatMissingData:   awscloudwatch.TreatMissingData_NOT_BREACHING,
	})
	watch.watchful.AddAlarm(throttleAlarm)

	watch.watchful.AddWidgets(
		awscloudwatch.NewGraphWidget(&awscloudwatch.GraphWidgetProps{
			Title: jsii.String("Consumed Capacity Units/5min"),
			Width: jsii.Number(12),
			Left:  &consumed,
		}),
		awscloudwatch.NewGraphWidget(&awscloudwatch.GraphWidgetProps{
			Title:           jsii.String("Throttles/5min"),
			Width:           jsii.Number(12),
			Left:            &[]awscloudwatch.IMetric{throttles},
			LeftAnnotations: &[]*awscloudwatch.HorizontalAnnotation{throttleAlarm.ToAnnotation()},
		}),
	)
}

// capacityUtilization expresses consumed capacity as a percentage of the
// provisioned ceiling. Consumed units are a period sum while provisioned
// units are per second, hence the division by PERIOD.
func (watch *WatchDynamoTable) capacityUtilization(direction string) awscloudwatch.MathExpression {
	consumed := watch.tableMetric(fmt.Sprintf("Consumed%sCapacityUnits", direction), "Sum")
	provisioned := watch.tableMetric(fmt.Sprintf("Provisioned%sCapacityUnits", direction), "Average")
	return awscloudwatch.NewMathExpression(&awscloudwatch.MathExpressionProps{
		Expression: jsii.String("consumed / PERIOD(consumed) / provisioned * 100"),
		UsingMetrics: &map[string]awscloudwatch.IMetric{
			"consumed":    consumed,
			"provisioned": provisioned,
		},
		Label:  jsii.String(fmt.Sprintf("%s capacity utilization", direction)),
		Period: awscdk.Duration_Minutes(jsii.Number(5)),
	})
}

func (watch *WatchDynamoTable) capacityAlarm(direction string, utilization awscloudwatch.MathExpression, thresholdPercent *float64) awscloudwatch.Alarm {
	if thresholdPercent == nil {
		thresholdPercent = jsii.Number(defaultCapacityThresholdPercent)
	}
	return utilization.CreateAlarm(watch.Construct, jsii.String(direction+"CapacityAlarm"), &awscloudwatch.CreateAlarmOptions{
		AlarmDescription:   jsii.String(fmt.Sprintf("%s capacity utilization reached %v%%", direction, *thresholdPercent)),
		Threshold:          thresholdPercent,
		ComparisonOperator: awscloudwatch.ComparisonOperator_GREATER_THAN_OR_EQUAL_TO_THRESHOLD,
		EvaluationPeriods:  jsii.Number(1),
		TreatMissingData:   awscloudwatch.TreatMissingData_NOT_BREACHING,
	})
}

func (watch *WatchDynamoTable) tableMetric(name string, statistic string) awscloudwatch.Metric {
	return awscloudwatch.NewMetric(&awscloudwatch.MetricProps{
		Namespace:     jsii.String("AWS/DynamoDB"),
		MetricName:    jsii.String(name),
		DimensionsMap: &map[string]*string{"TableName": watch.table.TableName()},
		Statistic:     jsii.String(statistic),
		Period:        awscdk.Duration_Minutes(jsii.Number(5)),
	})
}

func capacityGraph(direction string, utilization awscloudwatch.MathExpression, alarm awscloudwatch.Alarm) awscloudwatch.GraphWidget {
	return awscloudwatch.NewGraphWidget(&awscloudwatch.GraphWidgetProps{
		Title:           jsii.String(fmt.Sprintf("%s Capacity Utilization/5min", direction)),
		Width:           jsii.Number(12),
		Left:            &[]awscloudwatch.IMetric{utilization},
		LeftAnnotations: &[]*awscloudwatch.HorizontalAnnotation{alarm.ToAnnotation()},
	})
}
