package collect

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"testing"

	"github.com/wudi/idkit/ocr"
)

// fakeEngine returns scripted results keyed by input ID and records the call
// order so tests can assert pass sequencing.
type fakeEngine struct {
	texts map[string]string
	words map[string][]ocr.TextWord
	fail  map[string]bool
	calls []string
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Recognize(_ context.Context, in ocr.Input) (ocr.Result, error) {
	f.calls = append(f.calls, in.ID)
	if f.fail[in.ID] {
		return ocr.Result{}, errors.New("scripted failure")
	}
	words := f.words[in.ID]
	res := ocr.Result{InputID: in.ID, PlainText: f.texts[in.ID]}
	if len(words) > 0 {
		res.Blocks = []ocr.TextBlock{{Lines: []ocr.TextLine{{Words: words}}}}
	}
	return res, nil
}

func testImage() image.Image {
	return image.NewGray(image.Rect(0, 0, 100, 60))
}

func TestCollectOrdersObservations(t *testing.T) {
	eng := &fakeEngine{
		texts: map[string]string{
			"original_standard":      "first",
			"original_uniform_block": "second",
			"binarized_standard":     "third",
		},
		fail: map[string]bool{},
	}
	c := NewCollector(eng)
	obs, table, err := c.Collect(context.Background(), []Variant{
		{Name: "original", Image: testImage()},
		{Name: "binarized", Image: testImage()},
	})
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if table == nil {
		t.Fatalf("expected a token confidence table")
	}
	sources := make([]string, len(obs))
	for i, o := range obs {
		sources[i] = o.Source
	}
	want := []string{"original_standard", "original_uniform_block", "binarized_standard"}
	if strings.Join(sources, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected observation order: %v", sources)
	}
	// All passes for the first variant run before any pass of the second.
	lastOriginal, firstBinarized := -1, -1
	for i, id := range eng.calls {
		if strings.HasPrefix(id, "original_") {
			lastOriginal = i
		}
		if strings.HasPrefix(id, "binarized_") && firstBinarized == -1 {
			firstBinarized = i
		}
	}
	if lastOriginal > firstBinarized {
		t.Fatalf("variant passes interleaved: %v", eng.calls)
	}
}

func TestCollectSynthesizesHighConfidence(t *testing.T) {
	eng := &fakeEngine{
		texts: map[string]string{},
		words: map[string][]ocr.TextWord{
			"original_high_confidence": {
				{Text: "KHARTOUM", Confidence: 0.91},
				{Text: "noise", Confidence: 0.30},
				{Text: "P12345678", Confidence: 0.88},
			},
		},
		fail: map[string]bool{},
	}
	c := NewCollector(eng)
	obs, table, err := c.Collect(context.Background(), []Variant{{Name: "original", Image: testImage()}})
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	var high string
	for _, o := range obs {
		if o.Source == "original_high_confidence" {
			high = o.Text
		}
	}
	if high != "KHARTOUM P12345678" {
		t.Fatalf("unexpected high confidence observation: %q", high)
	}
	// The table holds the unfiltered arrays, including the low token.
	if table.Len() != 1 {
		t.Fatalf("expected one table entry, got %d", table.Len())
	}
	confs := table.Corroborate([]string{"NOISE"})
	if len(confs) != 1 || confs[0] != 30 {
		t.Fatalf("expected low token retrievable from table, got %v", confs)
	}
}

func TestCollectToleratesPassFailures(t *testing.T) {
	eng := &fakeEngine{
		texts: map[string]string{"original_single_line": "only pass that worked"},
		fail:  map[string]bool{},
	}
	for _, p := range []string{"standard", "single_column", "uniform_block", "eng_lang", "ara_lang", "high_confidence", "region_top_right", "region_center", "region_bottom"} {
		eng.fail[fmt.Sprintf("original_%s", p)] = true
	}
	c := NewCollector(eng)
	obs, _, err := c.Collect(context.Background(), []Variant{{Name: "original", Image: testImage()}})
	if err != nil {
		t.Fatalf("pass failures must not fail the request: %v", err)
	}
	if len(obs) != 1 || obs[0].Source != "original_single_line" {
		t.Fatalf("expected the surviving pass only, got %+v", obs)
	}
}

func TestCollectNoInput(t *testing.T) {
	c := NewCollector(&fakeEngine{texts: map[string]string{}, fail: map[string]bool{}})
	if _, _, err := c.Collect(context.Background(), nil); !errors.Is(err, ErrNoInput) {
		t.Fatalf("expected ErrNoInput, got %v", err)
	}
}

func TestCollectHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	eng := &failCtxEngine{}
	c := NewCollector(eng)
	if _, _, err := c.Collect(ctx, []Variant{{Name: "original", Image: testImage()}}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

type failCtxEngine struct{}

func (failCtxEngine) Name() string { return "ctx" }

func (failCtxEngine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	return ocr.Result{}, ctx.Err()
}

func TestCorroborateMatchesCaseInsensitively(t *testing.T) {
	table := NewTokenConfidences()
	table.Add("original", []string{"Kasem", "ABDULSALAM", "", "junk"}, []float64{88, 92, 10, 0})
	confs := table.Corroborate([]string{"KASEM", "ABDULSALAM"})
	if len(confs) != 2 || confs[0] != 88 || confs[1] != 92 {
		t.Fatalf("unexpected corroboration: %v", confs)
	}
	if got := table.Corroborate([]string{"MISSING"}); got != nil {
		t.Fatalf("expected no matches, got %v", got)
	}
}
