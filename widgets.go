package watchful

import (
	"fmt"
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudwatch"
	"github.com/aws/jsii-runtime-go"
)

// QuickLink is a labeled URL rendered as a markdown button inside a section
// header.
type QuickLink struct {
	Title *string `json:"title"`
	Url   *string `json:"url"`
}

// SectionOptions customize a dashboard section added through AddSection.
type SectionOptions struct {
	// Links are rendered as console shortcuts below the section title.
	Links *[]*QuickLink `json:"links,omitempty"`
}

// metricGraph is the standard left axis graph the watchers use. A nil alarm
// simply leaves the annotation off.
func metricGraph(name string, width *float64, alarm awscloudwatch.Alarm, metrics ...awscloudwatch.IMetric) awscloudwatch.GraphWidget {
	props := &awscloudwatch.GraphWidgetProps{
		Title: jsii.String(fmt.Sprintf("%s/5min", name)),
		Width: width,
		Left:  &metrics,
	}
	if alarm != nil {
		props.LeftAnnotations = &[]*awscloudwatch.HorizontalAnnotation{alarm.ToAnnotation()}
	}
	return awscloudwatch.NewGraphWidget(props)
}

// SectionWidgetProps configure a section header widget.
type SectionWidgetProps struct {
	// Title is rendered as a top level markdown heading.
	Title *string `json:"title"`
	// Links are rendered as markdown buttons under the title.
	Links *[]*QuickLink `json:"links,omitempty"`
}

// NewSectionWidget renders a full width markdown header row for a group of
// monitoring widgets.
func NewSectionWidget(props *SectionWidgetProps) awscloudwatch.TextWidget {
	lines := []string{fmt.Sprintf("# %s", *props.Title)}
	if props.Links != nil && len(*props.Links) > 0 {
		buttons := make([]string, 0, len(*props.Links))
		for _, link := range *props.Links {
			buttons = append(buttons, fmt.Sprintf("[button:%s](%s)", *link.Title, *link.Url))
		}
		lines = append(lines, strings.Join(buttons, " | "))
	}
	return awscloudwatch.NewTextWidget(&awscloudwatch.TextWidgetProps{
		Markdown: jsii.String(strings.Join(lines, "\n")),
		Width:    jsii.Number(24),
		Height:   jsii.Number(2),
	})
}
