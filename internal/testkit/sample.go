package testkit

import (
	jv "jsonprof/domain/jsonvalue"
)

// SampleDocument returns the demonstration document used by the sample
// command and tests. Planted outliers: metrics.temperatures[5],
// metrics.humidity[4] and system_status.cpu_usage[4]. The low sensor reading
// sits in an array of objects and is not numerically analyzed.
func SampleDocument() *jv.Value {
	return jv.Object(
		jv.Field("metrics", jv.Object(
			jv.Field("temperatures", floats(22.1, 22.3, 22.0, 21.9, 22.2, 35.7, 22.1)),
			jv.Field("humidity", floats(45.2, 44.9, 45.1, 44.8, 95.6, 45.3)),
			jv.Field("pressure", ints(1013, 1014, 1012, 1013, 1011, 1014)),
		)),
		jv.Field("user_info", jv.Object(
			jv.Field("name", jv.String("John Doe")),
			jv.Field("age", jv.Int(30)),
			jv.Field("email", jv.String("john@example.com")),
			jv.Field("active", jv.Bool(true)),
			jv.Field("login_count", jv.Int(27)),
			jv.Field("previous_logins", strs("2025-04-25", "2025-04-20", "2025-04-15")),
		)),
		jv.Field("sensor_readings", jv.Array(
			reading(1, 345, "2025-04-28T14:30:00"),
			reading(2, 347, "2025-04-28T14:35:00"),
			reading(3, 352, "2025-04-28T14:40:00"),
			reading(4, 12, "2025-04-28T14:45:00"),
			reading(5, 348, "2025-04-28T14:50:00"),
		)),
		jv.Field("system_status", jv.Object(
			jv.Field("cpu_usage", ints(12, 15, 14, 16, 78, 14)),
			jv.Field("memory_usage", ints(45, 46, 47, 45, 46, 45)),
			jv.Field("disk_space", jv.Array(
				partition("C:", 68),
				partition("D:", 23),
				partition("E:", 92),
			)),
		)),
	)
}

// SampleAnomalyPaths lists the anomalies SampleDocument yields at the
// default threshold, in report order
var SampleAnomalyPaths = []string{
	"metrics.temperatures[5]",
	"metrics.humidity[4]",
	"system_status.cpu_usage[4]",
}

func reading(id, value int64, timestamp string) *jv.Value {
	return jv.Object(
		jv.Field("sensor_id", jv.Int(id)),
		jv.Field("value", jv.Int(value)),
		jv.Field("timestamp", jv.String(timestamp)),
	)
}

func partition(name string, percent int64) *jv.Value {
	return jv.Object(
		jv.Field("partition", jv.String(name)),
		jv.Field("percent_used", jv.Int(percent)),
	)
}

func floats(values ...float64) *jv.Value {
	items := make([]*jv.Value, len(values))
	for i, v := range values {
		items[i] = jv.Number(v)
	}
	return jv.Array(items...)
}

func ints(values ...int64) *jv.Value {
	items := make([]*jv.Value, len(values))
	for i, v := range values {
		items[i] = jv.Int(v)
	}
	return jv.Array(items...)
}

func strs(values ...string) *jv.Value {
	items := make([]*jv.Value, len(values))
	for i, v := range values {
		items[i] = jv.String(v)
	}
	return jv.Array(items...)
}
