package diag

import "dfalex/internal/source"

// Reporter receives diagnostics from the tokenizer and the driver.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note)
}

// ReportBuilder collects notes before a single Emit.
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

func NewReportBuilder(r Reporter, sev Severity, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{reporter: r, diag: New(sev, code, primary, msg)}
}

func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b != nil {
		b.diag = b.diag.WithNote(sp, msg)
	}
	return b
}

// Emit forwards the diagnostic; later calls do nothing.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	b.emitted = true
	if b.reporter != nil {
		d := b.diag
		b.reporter.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes)
	}
}

// Diagnostic returns what Emit would send.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.diag
}

// BagReporter складывает диагностики в Bag; лишние сверх лимита теряются.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r.Bag != nil {
		r.Bag.Add(Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary, Notes: notes})
	}
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(Code, Severity, source.Span, string, []Note) {}
