package main

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"log"
	"os"
	"reflect"
	"strings"
	"text/template"
)

const outputPath = "internal/metrics/generated_metrics.go"

// Metric represents a single metric to export, sourced from one `metric`
// struct tag on internal/bss.Record. The template is in template.tmpl.
//
// The fields are:
// - Name: the Prometheus metric name
// - FieldName: the Go field name on bss.Record
// - Help: the help text for the metric
// - Type: the Prometheus type of the metric (currently always Histogram)
// - Buckets: a Go expression (verbatim from the tag) for the
//   HistogramOpts.Buckets field, e.g. "prometheus.LinearBuckets(0, 1, 10)"
type Metric struct {
	Name      string
	FieldName string
	VarName   string // FieldName with a lowercase first rune, for local variables
	Help      string
	Type      string
	Buckets   string
}

func main() {
	fset := token.NewFileSet()
	node, err := parser.ParseFile(fset, "internal/bss/record.go", nil, parser.ParseComments)
	if err != nil {
		log.Fatal(err)
	}

	var metrics []Metric
	ast.Inspect(node, func(n ast.Node) bool {
		s, ok := n.(*ast.StructType)
		if !ok {
			return true
		}

		for _, f := range s.Fields.List {
			if f.Tag == nil {
				continue
			}
			tag := reflect.StructTag(strings.Trim(f.Tag.Value, "`"))
			metricTag, ok := tag.Lookup("metric")
			if !ok {
				continue
			}

			var metric Metric
			metric.FieldName = f.Names[0].Name
			metric.Type = "Histogram"

			tagString := metricTag
			for tagString != "" {
				i := strings.Index(tagString, "=")
				if i == -1 {
					log.Printf("malformed tag (missing =): %s [%s]", tagString, metric.FieldName)
					break
				}
				key := tagString[:i]
				tagString = tagString[i+1:]

				var value string
				if strings.HasPrefix(tagString, "'") {
					tagString = tagString[1:]
					j := strings.Index(tagString, "'")
					if j == -1 {
						log.Printf("malformed tag (missing '): %s [%s]", tagString, metric.FieldName)
						break
					}
					value = tagString[:j]
					tagString = tagString[j+1:]
					if strings.HasPrefix(tagString, ",") {
						tagString = tagString[1:]
					}
				} else {
					j := strings.Index(tagString, ",")
					if j == -1 {
						value = tagString
						tagString = ""
					} else {
						value = tagString[:j]
						tagString = tagString[j+1:]
					}
				}

				switch key {
				case "name":
					metric.Name = value
				case "prom_type":
					switch value {
					case "gauge":
						metric.Type = "Gauge"
					case "histogram":
						metric.Type = "Histogram"
					}
				case "prom_help":
					metric.Help = value
				case "buckets":
					metric.Buckets = value
				}
			}
			metric.VarName = strings.ToLower(metric.FieldName[:1]) + metric.FieldName[1:]
			metrics = append(metrics, metric)
		}
		return false
	})

	t, err := template.ParseFiles("cmd/scanmetrics-gen/template.tmpl")
	if err != nil {
		log.Fatal(err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, struct{ Metrics []Metric }{Metrics: metrics}); err != nil {
		log.Fatal(err)
	}

	if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Generated %s\n", outputPath)
}
