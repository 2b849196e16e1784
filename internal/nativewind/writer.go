package nativewind

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Writer rewrites the generated style module from compiler output.
type Writer struct {
	cache          CacheDir
	deriver        Deriver
	registry       string
	registryModule string
	log            *zap.Logger
}

// NewWriter creates a writer targeting cache.ModulePath().
func NewWriter(cache CacheDir, deriver Deriver, registry, registryModule string, log *zap.Logger) *Writer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Writer{
		cache:          cache,
		deriver:        deriver,
		registry:       registry,
		registryModule: registryModule,
		log:            log.Named("writer"),
	}
}

// Render returns the module source registering options.
func (w *Writer) Render(options []byte) string {
	return fmt.Sprintf("const {%s}=require(%q);\n%s.create(%s);",
		w.registry, w.registryModule, w.registry, options)
}

// Write derives style options from one compiler output unit and replaces the
// module with a single registration call. The file is complete when Write
// returns.
func (w *Writer) Write(unit string) error {
	options, err := w.deriver.Derive(strings.TrimSpace(unit))
	if err != nil {
		return fmt.Errorf("derive style options: %w", err)
	}

	payload, err := json.Marshal(options)
	if err != nil {
		return fmt.Errorf("encode style options: %w", err)
	}

	if err := w.cache.WriteModule(w.Render(payload)); err != nil {
		return err
	}
	w.log.Debug("Wrote style module", zap.String("path", w.cache.ModulePath()), zap.Int("bytes", len(payload)))
	return nil
}

// Consume applies events in arrival order until the stream closes: output
// units are written, diagnostics and write failures go to report.
func (w *Writer) Consume(events <-chan Event, report func(string)) {
	for ev := range events {
		switch ev.Kind {
		case EventOutput:
			if err := w.Write(ev.Text); err != nil {
				report(err.Error())
			}
		case EventDiagnostic:
			report(ev.Text)
		}
	}
}
