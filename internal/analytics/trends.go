package analytics

import (
	"sort"
	"time"
)

// DailyRevenue is one point of the daily sales series.
type DailyRevenue struct {
	Date    time.Time `json:"date"`
	Revenue float64   `json:"revenue"`
	Orders  int       `json:"orders"`
}

// ChannelRevenue is the revenue attributed to one order channel.
type ChannelRevenue struct {
	Channel string  `json:"channel"`
	Revenue float64 `json:"revenue"`
}

// TrendReport bundles the time and channel views of the dataset.
type TrendReport struct {
	Daily     []DailyRevenue   `json:"daily"`
	ByChannel []ChannelRevenue `json:"by_channel"`
	// ByHour holds order row counts per hour of day, index 0-23.
	ByHour [24]int `json:"by_hour"`
	// ByWeekday holds order row counts Monday..Sunday.
	ByWeekday [7]int `json:"by_weekday"`
}

// Trends computes the daily revenue series (ascending by day), revenue
// by channel (descending), and order counts by hour of day and weekday.
// Views whose columns are absent stay empty.
func Trends(ds *Dataset) TrendReport {
	var report TrendReport

	if ds.Has(FieldOrderedAt) {
		type dayAcc struct {
			revenue float64
			orders  int
		}
		days := make(map[time.Time]*dayAcc)
		for _, o := range ds.Orders {
			if o.Date.IsZero() {
				continue
			}
			acc := days[o.Date]
			if acc == nil {
				acc = &dayAcc{}
				days[o.Date] = acc
			}
			acc.revenue += o.Paid
			acc.orders++

			report.ByHour[o.OrderedAt.Hour()]++
			// time.Weekday starts on Sunday; report starts on Monday.
			report.ByWeekday[(int(o.OrderedAt.Weekday())+6)%7]++
		}

		report.Daily = make([]DailyRevenue, 0, len(days))
		for day, acc := range days {
			report.Daily = append(report.Daily, DailyRevenue{Date: day, Revenue: acc.revenue, Orders: acc.orders})
		}
		sort.Slice(report.Daily, func(i, j int) bool {
			return report.Daily[i].Date.Before(report.Daily[j].Date)
		})
	}

	if ds.Has(FieldChannel) {
		revenue := make(map[string]float64)
		order := make([]string, 0)
		for _, o := range ds.Orders {
			if _, ok := revenue[o.Channel]; !ok {
				order = append(order, o.Channel)
			}
			revenue[o.Channel] += o.Paid
		}
		report.ByChannel = make([]ChannelRevenue, 0, len(order))
		for _, ch := range order {
			report.ByChannel = append(report.ByChannel, ChannelRevenue{Channel: ch, Revenue: revenue[ch]})
		}
		sort.SliceStable(report.ByChannel, func(i, j int) bool {
			return report.ByChannel[i].Revenue > report.ByChannel[j].Revenue
		})
	}

	return report
}
