package main

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"

	"github.com/30Piraten/watchful"
	"github.com/30Piraten/watchful/config"
)

// Monitoring resources
func createMonitoringResources(stack awscdk.Stack) *watchful.Watchful {
	props := &watchful.WatchfulProps{
		DashboardName: jsii.String(config.EnvOr("WATCHFUL_DASHBOARD_NAME", "watchful-demo")),
	}
	if email := alarmEmail(stack); email != "" {
		props.AlarmEmail = jsii.String(email)
	}

	w := watchful.NewWatchful(stack, jsii.String("Watchful"), props)

	// Pick up the table, the handler and the REST API in one sweep
	w.WatchScope(stack, nil)

	return w
}

// alarmEmail prefers the context key so a deploy can set it with
// --context watchful:alarmEmail=ops@example.com, then falls back to the
// environment. Empty means no alarm destination.
func alarmEmail(stack awscdk.Stack) string {
	if v := stack.Node().TryGetContext(jsii.String("watchful:alarmEmail")); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return config.EnvOr("WATCHFUL_ALARM_EMAIL", "")
}
