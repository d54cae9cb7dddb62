package affinity

import (
	"context"
	"fmt"
	"testing"
)

func TestBatchOpenFilesMixedOutcomes(t *testing.T) {
	runner := &fakeRunner{failOn: "broken.afphoto"}
	svc := newTestService(runner)

	res, err := svc.BatchOpenFiles(context.Background(), BatchOpenFilesParams{
		Paths: []string{"good.afphoto", "broken.afphoto"},
	})
	if err != nil {
		t.Fatalf("BatchOpenFiles failed: %v", err)
	}

	if res.SuccessCount != 1 || res.FailureCount != 1 {
		t.Errorf("counts = %d/%d, want 1/1", res.SuccessCount, res.FailureCount)
	}
	if len(res.Results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(res.Results))
	}
	if !res.Results[0].Opened || res.Results[0].Path != "good.afphoto" {
		t.Errorf("results[0] = %+v, want opened good.afphoto", res.Results[0])
	}
	if res.Results[1].Opened || res.Results[1].App != "Error" || res.Results[1].Path != "broken.afphoto" {
		t.Errorf("results[1] = %+v, want failure echoing broken.afphoto", res.Results[1])
	}
}

func TestBatchOpenFilesCountInvariant(t *testing.T) {
	runner := &fakeRunner{failOn: ".afpub"}
	svc := newTestService(runner)

	paths := []string{"a.afphoto", "b.afpub", "c.afdesign", "d.afpub", "e.afphoto"}
	res, err := svc.BatchOpenFiles(context.Background(), BatchOpenFilesParams{Paths: paths})
	if err != nil {
		t.Fatalf("BatchOpenFiles failed: %v", err)
	}

	if res.SuccessCount+res.FailureCount != len(res.Results) {
		t.Errorf("counts %d+%d do not cover %d results",
			res.SuccessCount, res.FailureCount, len(res.Results))
	}
	if res.SuccessCount != 3 || res.FailureCount != 2 {
		t.Errorf("counts = %d/%d, want 3/2", res.SuccessCount, res.FailureCount)
	}
	for i, r := range res.Results {
		if r.Path != paths[i] {
			t.Errorf("results[%d].Path = %q, want %q", i, r.Path, paths[i])
		}
	}
}

func TestBatchOpenFilesTruncatesToFanOutLimit(t *testing.T) {
	svc := newTestService(&fakeRunner{})

	paths := make([]string, FanOutLimit+4)
	for i := range paths {
		paths[i] = fmt.Sprintf("doc-%02d.afphoto", i)
	}

	res, err := svc.BatchOpenFiles(context.Background(), BatchOpenFilesParams{Paths: paths})
	if err != nil {
		t.Fatalf("BatchOpenFiles failed: %v", err)
	}

	if len(res.Results) != FanOutLimit {
		t.Errorf("len(results) = %d, want %d", len(res.Results), FanOutLimit)
	}
	if res.SuccessCount != FanOutLimit || res.FailureCount != 0 {
		t.Errorf("counts = %d/%d, want %d/0", res.SuccessCount, res.FailureCount, FanOutLimit)
	}
	for i, r := range res.Results {
		if r.Path != paths[i] {
			t.Errorf("results[%d].Path = %q, want %q", i, r.Path, paths[i])
		}
	}
}

func TestBatchOpenFilesEmptyIsEmptySuccess(t *testing.T) {
	runner := &fakeRunner{}
	svc := newTestService(runner)

	res, err := svc.BatchOpenFiles(context.Background(), BatchOpenFilesParams{Paths: []string{}})
	if err != nil {
		t.Fatalf("empty batch must not error, got %v", err)
	}
	if res.SuccessCount != 0 || res.FailureCount != 0 || len(res.Results) != 0 {
		t.Errorf("empty batch = %+v, want zero counts and no results", res)
	}
	if len(runner.scripts) != 0 {
		t.Errorf("empty batch ran %d scripts", len(runner.scripts))
	}
}

func TestBatchExportMixedOutcomes(t *testing.T) {
	runner := &fakeRunner{failOn: "bad.png"}
	svc := newTestService(runner)

	res, err := svc.BatchExport(context.Background(), BatchExportParams{
		Exports: []ExportParams{
			{Path: "ok.png", Format: FormatPNG},
			{Path: "bad.png", Format: FormatPNG},
			{Path: "ok.pdf", Format: FormatPDF},
		},
	})
	if err != nil {
		t.Fatalf("BatchExport failed: %v", err)
	}

	if res.SuccessCount != 2 || res.FailureCount != 1 {
		t.Errorf("counts = %d/%d, want 2/1", res.SuccessCount, res.FailureCount)
	}
	if res.Results[1].Exported || res.Results[1].Path != "bad.png" {
		t.Errorf("results[1] = %+v, want failure echoing bad.png", res.Results[1])
	}
	if !res.Results[0].Exported || !res.Results[2].Exported {
		t.Errorf("sibling exports affected by failure: %+v", res.Results)
	}
}

func TestBatchExportEmptyIsEmptySuccess(t *testing.T) {
	svc := newTestService(&fakeRunner{})

	res, err := svc.BatchExport(context.Background(), BatchExportParams{})
	if err != nil {
		t.Fatalf("empty batch must not error, got %v", err)
	}
	if res.SuccessCount != 0 || res.FailureCount != 0 || len(res.Results) != 0 {
		t.Errorf("empty batch = %+v, want zero counts and no results", res)
	}
}
