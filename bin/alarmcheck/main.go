// Command alarmcheck inspects the CloudWatch alarms and dashboards a
// deployment created. It is meant for CI smoke checks after a deploy: the
// alarms command exits nonzero while any matching alarm is firing.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "alarmcheck",
		Usage: "inspect the CloudWatch alarms and dashboards of a deployment",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "region",
				Usage: "AWS region override",
			},
		},
		Commands: []*cli.Command{
			alarmsCommand(),
			dashboardsCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newCloudWatchClient(c *cli.Context) (*cloudwatch.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(c.Context)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %v", err)
	}
	if region := c.String("region"); region != "" {
		cfg.Region = region
	}
	return cloudwatch.NewFromConfig(cfg), nil
}

func alarmsCommand() *cli.Command {
	return &cli.Command{
		Name:  "alarms",
		Usage: "list matching alarms and fail when any is in ALARM state",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "prefix",
				Usage:    "only alarms whose name starts with this",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			client, err := newCloudWatchClient(c)
			if err != nil {
				return err
			}
			alarms, err := fetchAlarms(c.Context, client, c.String("prefix"))
			if err != nil {
				return err
			}

			for _, alarm := range alarms {
				fmt.Println(alarmLine(alarm))
			}
			if firing := firingCount(alarms); firing > 0 {
				return cli.Exit(fmt.Sprintf("%d alarm(s) firing", firing), 1)
			}
			fmt.Printf("%d alarm(s), none firing\n", len(alarms))
			return nil
		},
	}
}

func dashboardsCommand() *cli.Command {
	return &cli.Command{
		Name:  "dashboards",
		Usage: "list matching dashboards and fail when none exist",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "prefix",
				Usage:    "only dashboards whose name starts with this",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			client, err := newCloudWatchClient(c)
			if err != nil {
				return err
			}
			entries, err := fetchDashboards(c.Context, client, c.String("prefix"))
			if err != nil {
				return err
			}

			for _, entry := range entries {
				fmt.Println(dashboardLine(entry))
			}
			if len(entries) == 0 {
				return cli.Exit("no dashboards found", 1)
			}
			return nil
		},
	}
}

func fetchAlarms(ctx context.Context, client *cloudwatch.Client, prefix string) ([]types.MetricAlarm, error) {
	var alarms []types.MetricAlarm
	paginator := cloudwatch.NewDescribeAlarmsPaginator(client, &cloudwatch.DescribeAlarmsInput{
		AlarmNamePrefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe alarms: %v", err)
		}
		alarms = append(alarms, page.MetricAlarms...)
	}
	return alarms, nil
}

func fetchDashboards(ctx context.Context, client *cloudwatch.Client, prefix string) ([]types.DashboardEntry, error) {
	var entries []types.DashboardEntry
	paginator := cloudwatch.NewListDashboardsPaginator(client, &cloudwatch.ListDashboardsInput{
		DashboardNamePrefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list dashboards: %v", err)
		}
		entries = append(entries, page.DashboardEntries...)
	}
	return entries, nil
}

func alarmLine(alarm types.MetricAlarm) string {
	line := fmt.Sprintf("%-18s %s", alarm.StateValue, aws.ToString(alarm.AlarmName))
	if reason := aws.ToString(alarm.StateReason); reason != "" {
		line += "  " + reason
	}
	return line
}

func dashboardLine(entry types.DashboardEntry) string {
	return fmt.Sprintf("%s  %s", aws.ToString(entry.DashboardName), aws.ToString(entry.DashboardArn))
}

func firingCount(alarms []types.MetricAlarm) int {
	firing := 0
	for _, alarm := range alarms {
		if alarm.StateValue == types.StateValueAlarm {
			firing++
		}
	}
	return firing
}
