/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: reporting_test.go
Description: Tests for record formatting, sinks and report file output.
*/

package reporting_test

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/kleascm/blobscan/pkg/inference"
	"github.com/kleascm/blobscan/pkg/reporting"
	"github.com/kleascm/blobscan/pkg/scan"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func dataRun() scan.Run {
	return scan.Run{Kind: scan.RunData, Start: 0x10, End: 0x18, WordCount: 2, Reported: true}
}

func TestReporterDataRecord(t *testing.T) {
	sink := reporting.NewMemorySink(logrus.InfoLevel)
	reporter := reporting.NewReporter(sink, 5).WithScan("scan-1", "model.moc3")

	reporter.ReportData(dataRun(), inference.Result{
		AssumedType:     inference.TypeU8,
		Min:             0,
		Max:             200,
		FloatPlausible:  true,
		StringPlausible: false,
	})

	records := sink.Records()
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, reporting.TagData, rec.Tag)
	assert.Equal(t, logrus.InfoLevel, rec.Level)
	assert.Equal(t, "scan-1", rec.ScanID)
	assert.Equal(t, "model.moc3", rec.Source)
	assert.Equal(t, uint64(0x13), rec.End, "report offset is subtracted from the end")
	assert.Equal(t, uint64(8), rec.Size)
	assert.Equal(t,
		"DATA 0x00000010 0x00000013 size=8 probably=u8 min=0 max=200 maybe_float=true maybe_string=false",
		rec.Message())
}

func TestReporterLevelsGateRecords(t *testing.T) {
	sink := reporting.NewMemorySink(logrus.InfoLevel)
	reporter := reporting.NewReporter(sink, 0)

	reporter.ReportVoid(scan.Run{Kind: scan.RunZero, Start: 0, End: 32, WordCount: 8})
	reporter.ReportWord(0, inference.Decoded{Signed: 1, Unsigned: 1, Float: 1e-45}, scan.EndianLittle)
	assert.Empty(t, sink.Records(), "void is debug and word is trace")
	assert.False(t, reporter.TraceEnabled())

	sink = reporting.NewMemorySink(logrus.TraceLevel)
	reporter = reporting.NewReporter(sink, 0)
	reporter.ReportVoid(scan.Run{Kind: scan.RunZero, Start: 0, End: 32, WordCount: 8})
	reporter.ReportWord(4, inference.Decoded{Signed: -1, Unsigned: 4294967295}, scan.EndianBig)
	assert.True(t, reporter.TraceEnabled())

	voids := sink.Tagged(reporting.TagVoid)
	require.Len(t, voids, 1)
	assert.Equal(t, "VOID 0x00000000 0x00000020 size=32", voids[0].Message())

	words := sink.Tagged(reporting.TagWord)
	require.Len(t, words, 1)
	assert.Contains(t, words[0].Message(), "signed=-1 unsigned=4294967295")
	assert.Contains(t, words[0].Message(), "endian=big")
}

func TestReporterDisplayEndSaturates(t *testing.T) {
	reporter := reporting.NewReporter(reporting.NewMemorySink(logrus.InfoLevel), 8)
	assert.Equal(t, uint64(0), reporter.DisplayEnd(4))
	assert.Equal(t, uint64(8), reporter.DisplayEnd(16))
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})

	sink := reporting.NewLogSink(logger)
	assert.True(t, sink.Enabled(logrus.InfoLevel))
	assert.False(t, sink.Enabled(logrus.DebugLevel))

	reporter := reporting.NewReporter(sink, 0).WithScan("abc", "blob.bin")
	reporter.ReportData(dataRun(), inference.Result{AssumedType: inference.TypeBool, Max: 1})

	out := buf.String()
	assert.Contains(t, out, "DATA 0x00000010 0x00000018 size=8 probably=bool")
	assert.Contains(t, out, "source=blob.bin")
	assert.Contains(t, out, "scan_id=abc")
}

func TestMultiSink(t *testing.T) {
	info := reporting.NewMemorySink(logrus.InfoLevel)
	debug := reporting.NewMemorySink(logrus.DebugLevel)
	multi := reporting.MultiSink{info, debug}

	assert.True(t, multi.Enabled(logrus.DebugLevel))
	assert.False(t, multi.Enabled(logrus.TraceLevel))

	reporter := reporting.NewReporter(multi, 0)
	reporter.ReportVoid(scan.Run{Kind: scan.RunZero, Start: 0, End: 40, WordCount: 10})

	assert.Empty(t, info.Records())
	assert.Len(t, debug.Records(), 1)

	debug.Reset()
	assert.Empty(t, debug.Records())
}

func sampleReport() *reporting.Report {
	sink := reporting.NewMemorySink(logrus.DebugLevel)
	reporter := reporting.NewReporter(sink, 0).WithScan("id-1", "sample.moc3")
	reporter.ReportVoid(scan.Run{Kind: scan.RunZero, Start: 0, End: 32, WordCount: 8})
	reporter.ReportData(dataRun(), inference.Result{AssumedType: inference.TypeU16, Max: 300})

	summary := reporting.NewSummary()
	summary.Words = 10
	summary.DataRuns = 1
	summary.VoidRuns = 1
	summary.TypeCounts[inference.TypeU16.String()] = 1
	reporter.ReportSummary(summary)

	report := reporting.NewReport("Scan report", "1.0.0")
	report.Scans = append(report.Scans, reporting.ScanReport{
		ScanID:  "id-1",
		Source:  "sample.moc3",
		Summary: summary,
		Records: sink.Records(),
	})
	return report
}

func TestEncodeJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, reporting.Encode(&buf, reporting.FormatJSON, sampleReport()))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	scans := decoded["scans"].([]interface{})
	require.Len(t, scans, 1)

	records := scans[0].(map[string]interface{})["records"].([]interface{})
	require.Len(t, records, 3)
	data := records[1].(map[string]interface{})
	assert.Equal(t, "DATA", data["tag"])
	assert.Equal(t, "info", data["level"])
	assert.Equal(t, "u16", data["inference"].(map[string]interface{})["assumed_type"])
}

func TestEncodeJSONNonFiniteFloats(t *testing.T) {
	sink := reporting.NewMemorySink(logrus.TraceLevel)
	reporter := reporting.NewReporter(sink, 0).WithScan("id-2", "floats.bin")
	reporter.ReportData(scan.Run{Kind: scan.RunData, Start: 0, End: 8, WordCount: 2, Reported: true}, inference.Result{
		AssumedType: inference.TypeI32,
		Min:         -1,
		Max:         0xFFFFFFFF,
		MaxFloat:    inference.Float(math.Inf(1)),
	})
	reporter.ReportWord(4, inference.Decoded{Signed: -1, Unsigned: 0xFFFFFFFF, Float: float32(math.NaN())}, scan.EndianLittle)

	report := reporting.NewReport("Scan report", "1.0.0")
	report.Scans = append(report.Scans, reporting.ScanReport{ScanID: "id-2", Source: "floats.bin", Records: sink.Records()})

	var buf bytes.Buffer
	require.NoError(t, reporting.Encode(&buf, reporting.FormatJSON, report))
	assert.Contains(t, buf.String(), `"max_float": "+Inf"`)
	assert.Contains(t, buf.String(), `"float": "NaN"`)

	var decoded reporting.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Scans, 1)
	records := decoded.Scans[0].Records
	require.Len(t, records, 2)

	require.NotNil(t, records[0].Inference)
	assert.Equal(t, inference.TypeI32, records[0].Inference.AssumedType)
	assert.True(t, math.IsInf(float64(records[0].Inference.MaxFloat), 1))
	assert.Equal(t, inference.Float(0), records[0].Inference.MinFloat)

	require.NotNil(t, records[1].Word)
	assert.True(t, math.IsNaN(float64(records[1].Word.Float)))
	assert.Equal(t, logrus.TraceLevel, records[1].Level)

	buf.Reset()
	require.NoError(t, reporting.Encode(&buf, reporting.FormatYAML, report))
	assert.Contains(t, buf.String(), "max_float: +.inf")
	assert.Contains(t, buf.String(), "float: .nan")
}

func TestEncodeYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, reporting.Encode(&buf, reporting.FormatYAML, sampleReport()))

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "Scan report", decoded["title"])
	assert.Contains(t, buf.String(), "assumed_type: u16")
}

func TestEncodeHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, reporting.Encode(&buf, reporting.FormatHTML, sampleReport()))

	html := buf.String()
	assert.Contains(t, html, "<title>Scan report</title>")
	assert.Contains(t, html, "sample.moc3")
	assert.Contains(t, html, "0x00000010")
	assert.Contains(t, html, "u16")
}

func TestWriteReportIntoDirectory(t *testing.T) {
	dir := t.TempDir()
	report := sampleReport()

	path, err := reporting.WriteReport(dir, reporting.FormatYAML, report)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "blobscan_"))
	assert.True(t, strings.HasSuffix(path, ".yaml"))

	explicit := filepath.Join(dir, "nested", "out.json")
	path, err = reporting.WriteReport(explicit, reporting.FormatJSON, report)
	require.NoError(t, err)
	assert.Equal(t, explicit, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"sample.moc3"`)
}

func TestParseFormat(t *testing.T) {
	f, err := reporting.ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, reporting.FormatYAML, f)

	f, err = reporting.ParseFormat("html")
	require.NoError(t, err)
	assert.Equal(t, reporting.FormatHTML, f)

	_, err = reporting.ParseFormat("xml")
	assert.Error(t, err)
}
