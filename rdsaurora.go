package watchful

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudwatch"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsrds"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

const defaultCpuThresholdPercent = 80

// WatchRdsAuroraOptions tune the alarms of a watched Aurora cluster. The
// optional thresholds default to 0, which keeps the graph but skips the
// alarm.
type WatchRdsAuroraOptions struct {
	// CpuMaximumThresholdPercent alarms when CPU utilization crosses this
	// percentage. Defaults to 80.
	CpuMaximumThresholdPercent *float64 `json:"cpuMaximumThresholdPercent,omitempty"`
	// DbConnectionsMaximumThreshold alarms above this connection count.
	DbConnectionsMaximumThreshold *float64 `json:"dbConnectionsMaximumThreshold,omitempty"`
	// DbReplicaLagMaximumThreshold alarms above this replica lag in
	// milliseconds.
	DbReplicaLagMaximumThreshold *float64 `json:"dbReplicaLagMaximumThreshold,omitempty"`
	// DbBufferCacheMinimumThreshold alarms below this buffer cache hit
	// percentage.
	DbBufferCacheMinimumThreshold *float64 `json:"dbBufferCacheMinimumThreshold,omitempty"`
}

// WatchRdsAuroraProps are the full inputs for NewWatchRdsAurora.
type WatchRdsAuroraProps struct {
	WatchRdsAuroraOptions
	// Title headlines the dashboard section of this cluster.
	Title *string `json:"title"`
	// Watchful receives the widgets and alarms this watcher creates.
	Watchful IWatchful `json:"watchful"`
	// Cluster is the watched database cluster.
	Cluster awsrds.DatabaseCluster `json:"cluster"`
}

// WatchRdsAurora monitors one Aurora cluster: CPU, connections, replica lag,
// query throughput and buffer cache hit ratio.
type WatchRdsAurora struct {
	constructs.Construct
	watchful IWatchful
	cluster  awsrds.DatabaseCluster
}

// NewWatchRdsAurora attaches cluster monitoring under scope.
func NewWatchRdsAurora(scope constructs.Construct, id *string, props *WatchRdsAuroraProps) *WatchRdsAurora {
	this := constructs.NewConstruct(scope, id)
	watch := &WatchRdsAurora{Construct: this, watchful: props.Watchful, cluster: props.Cluster}

	watch.watchful.AddSection(props.Title, &SectionOptions{
		Links: &[]*QuickLink{
			{Title: jsii.String("Amazon RDS Console"), Url: jsii.String(rdsClusterLink(this, props.Cluster))},
		},
	})

	cpu := watch.clusterMetric("CPUUtilization", "Average")
	cpuAlarm := watch.maximumAlarm("CpuAlarm", cpu, cpuThreshold(props.CpuMaximumThresholdPercent),
		"CPU utilization over %v%%")

	connections := watch.clusterMetric("DatabaseConnections", "Average")
	connectionsAlarm := watch.maximumAlarm("ConnectionsAlarm", connections, props.DbConnectionsMaximumThreshold,
		"More than %v open database connections")

	replicaLag := watch.clusterMetric("AuroraReplicaLag", "Average")
	replicaLagAlarm := watch.maximumAlarm("ReplicaLagAlarm", replicaLag, props.DbReplicaLagMaximumThreshold,
		"Replica lag over %vms")

	bufferCache := watch.clusterMetric("BufferCacheHitRatio", "Average")
	var bufferCacheAlarm awscloudwatch.Alarm
	if props.DbBufferCacheMinimumThreshold != nil && *props.DbBufferCacheMinimumThreshold > 0 {
		bufferCacheAlarm = bufferCache.CreateAlarm(this, jsii.String("BufferCacheAlarm"), &awscloudwatch.CreateAlarmOptions{
			AlarmDescription:   jsii.String(fmt.Sprintf("Buffer cache hit ratio below %v%%", *props.DbBufferCacheMinimumThreshold)),
			Threshold:          props.DbBufferCacheMinimumThreshold,
			ComparisonOperator: awscloudwatch.ComparisonOperator_LESS_THAN_THRESHOLD,
			EvaluationPeriods:  jsii.Number(3),
			TreatMissingData:   awscloudwatch.TreatMissingData_NOT_BREACHING,
		})
		watch.watchful.AddAlarm(bufferCacheAlarm)
	}

	watch.watchful.AddWidgets(
		metricGraph("CPU Utilization", jsii.Number(12), cpuAlarm, cpu),
		metricGraph("DB Connections", jsii.Number(12), connectionsAlarm, connections),
	)
	watch.watchful.AddWidgets(
		metricGraph("Replica Lag", jsii.Number(8), replicaLagAlarm, replicaLag),
		metricGraph("Query Throughput", jsii.Number(8), nil,
			watch.clusterMetric("SelectThroughput", "Average").With(&awscloudwatch.MetricOptions{Label: jsii.String("Select")}),
			watch.clusterMetric("DMLThroughput", "Average").With(&awscloudwatch.MetricOptions{Label: jsii.String("DML")}),
		),
		metricGraph("Buffer Cache Hit Ratio", jsii.Number(8), bufferCacheAlarm, bufferCache),
	)
	return watch
}

func cpuThreshold(thresholdPercent *float64) *float64 {
	if thresholdPercent == nil {
		return jsii.Number(defaultCpuThresholdPercent)
	}
	return thresholdPercent
}

// maximumAlarm creates a greater or equal alarm unless the threshold is nil
// or zero, which disables it.
func (watch *WatchRdsAurora) maximumAlarm(id string, metric awscloudwatch.Metric, threshold *float64, descriptionFormat string) awscloudwatch.Alarm {
	if threshold == nil || *threshold == 0 {
		return nil
	}
	alarm := metric.CreateAlarm(watch.Construct, jsii.String(id), &awscloudwatch.CreateAlarmOptions{
		AlarmDescription:   jsii.String(fmt.Sprintf(descriptionFormat, *threshold)),
		Threshold:          threshold,
		ComparisonOperator: awscloudwatch.ComparisonOperator_GREATER_THAN_OR_EQUAL_TO_THRESHOLD,
		EvaluationPeriods:  jsii.Number(3),
		TreatMissingData:   awscloudwatch.TreatMissingData_NOT_BREACHING,
	})
	watch.watchful.AddAlarm(alarm)
	return alarm
}

func (watch *WatchRdsAurora) clusterMetric(name string, statistic string) awscloudwatch.Metric {
	return awscloudwatch.NewMetric(&awscloudwatch.MetricProps{
		Namespace:     jsii.String("AWS/RDS"),
		MetricName:    jsii.String(name),
		DimensionsMap: &map[string]*string{"DBClusterIdentifier": watch.cluster.ClusterIdentifier()},
		Statistic:     jsii.String(statistic),
		Period:        awscdk.Duration_Minutes(jsii.Number(5)),
	})
}
