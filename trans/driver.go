package trans

import (
	"sharpjs/config"
	"sharpjs/meta"
	"sharpjs/report"
)

// CompileAll drains the store's work queues.  Each member gets a fresh
// translator; errors accumulate on the store and never abort the run.
// Methods are drained last in a loop because closing macros may enqueue more
// of them.
func CompileAll(store *meta.Store, options *config.Options) {
	if options == nil {
		options = config.Default()
	}

	for _, cc := range store.GetCompilingConstructors() {
		New(store, options).CompileConstructor(cc)
	}
	for _, cs := range store.GetCompilingStaticConstructors() {
		New(store, options).CompileStaticConstructor(cs)
	}
	for _, ci := range store.GetCompilingImplementations() {
		New(store, options).CompileImplementation(ci)
	}
	if ep := store.EntryPoint(); ep != nil {
		New(store, options).CompileEntryPoint(ep)
	}

	for {
		for {
			ms := store.CompilingMethods()
			if len(ms) == 0 {
				break
			}
			New(store, options).CompileMethod(ms[0])
		}

		store.CloseMacros()
		if len(store.CompilingMethods()) == 0 {
			break
		}
	}

	for _, d := range store.Diagnostics() {
		d.Display(options.LogLevel)
	}
	report.DisplaySummary(store.CompiledMemberCount(), store.FailedCount(), options.LogLevel)
}
