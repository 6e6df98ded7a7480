// Package logger is the producer-facing side of rollinglog. Most
// programs import this package and one handler package.
//
// A Provider binds one handler to one formatter. Loggers are created per
// category and render each record to text at the call site, so the
// handler only queues finished lines:
//
//	h, _ := filehandler.NewFileHandler(filehandler.FileConfig{
//	    Options: filehandler.Options{FileNamePrefix: "app-", Extension: "log"},
//	})
//	p, _ := logger.NewBuilder().WithHandler(h).Build()
//	defer p.Close()
//
//	log := p.CreateLogger("Billing")
//	log.Information("Invoice {Number} sent", 42)
//
// Messages are templates: holes are bound positionally to the arguments
// and also travel as structured state, which the json formatter writes
// out. Loggers are immutable. BeginScope and With return a child Logger
// carrying an extra scope; scopes are rendered only when the Provider was
// built WithIncludeScopes(true).
//
// IsEnabled is false while the handler is switched off, so producers can
// skip expensive rendering. The package-level functions delegate to a
// default Logger that discards everything until SetDefault is called.
package logger
