package main

import (
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/stretchr/testify/assert"
)

func TestFiringCount(t *testing.T) {
	alarms := []types.MetricAlarm{
		{AlarmName: aws.String("watchful-a"), StateValue: types.StateValueOk},
		{AlarmName: aws.String("watchful-b"), StateValue: types.StateValueAlarm},
		{AlarmName: aws.String("watchful-c"), StateValue: types.StateValueInsufficientData},
		{AlarmName: aws.String("watchful-d"), StateValue: types.StateValueAlarm},
	}

	assert.Equal(t, 2, firingCount(alarms))
	assert.Equal(t, 0, firingCount(nil))
}

func TestAlarmLine(t *testing.T) {
	line := alarmLine(types.MetricAlarm{
		AlarmName:  aws.String("watchful-demo-errors"),
		StateValue: types.StateValueOk,
	})

	assert.True(t, strings.HasPrefix(line, "OK"))
	assert.True(t, strings.HasSuffix(line, "watchful-demo-errors"))
}

func TestAlarmLineIncludesStateReason(t *testing.T) {
	line := alarmLine(types.MetricAlarm{
		AlarmName:   aws.String("watchful-demo-errors"),
		StateValue:  types.StateValueAlarm,
		StateReason: aws.String("Threshold Crossed: 1 datapoint"),
	})

	assert.True(t, strings.HasPrefix(line, "ALARM"))
	assert.Contains(t, line, "watchful-demo-errors")
	assert.Contains(t, line, "Threshold Crossed")
}

func TestDashboardLine(t *testing.T) {
	line := dashboardLine(types.DashboardEntry{
		DashboardName: aws.String("watchful-demo"),
		DashboardArn:  aws.String("arn:aws:cloudwatch::123456789012:dashboard/watchful-demo"),
	})

	assert.Equal(t, "watchful-demo  arn:aws:cloudwatch::123456789012:dashboard/watchful-demo", line)
}
