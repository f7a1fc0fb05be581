// Package gen generates TypeScript source files from a type-model
// document, preserving hand-written code inserted into previously
// generated files.
//
// # Architecture
//
// The generation pipeline follows this flow:
//
//	Model document (.json / .yaml)
//	        ↓
//	   load.Document (compiler/load)
//	        ↓
//	   Graph (types, dependency edges, output paths)
//	        ↓
//	   Generator (templates + content merging)
//	        ↓
//	   TypeScript files (one per exported type, optional index barrel)
//
// # Key Types
//
//   - Graph: holds every exportable Type with output-path validation
//   - Type: one class, interface or enum with its members and export
//     configuration
//   - Dependency: a derived edge between two exportable types
//   - TemplateSet: immutable named-template store with #name# tag
//     substitution
//   - Merger: extracts //<custom-head> and //<custom-body> regions from
//     prior output so regeneration never destroys manual edits
//   - Generator: composes the above into final file text, in parallel at
//     type granularity
//
// # Determinism
//
// The same model and the same prior file always produce the same output,
// and regenerating freshly generated output is byte-identical. Output
// paths are a pure function of each type's export configuration and the
// output root; two types resolving to the same path is a ConfigError,
// never a silent overwrite.
//
// # Error Handling
//
// The package uses structured error types:
//
//   - ConfigError: invalid or contradictory export configuration, fatal
//     for the affected type only
//   - GenerationError: a failure assembling one output file
//   - PreservationWarning: a malformed custom region in a prior file,
//     recovered by treating the region as empty
//
// Example error handling:
//
//	if err := generator.Generate(ctx); err != nil {
//	    if gen.IsConfigError(err) {
//	        // A type's export configuration is invalid; other types
//	        // were still generated.
//	    }
//	    return err
//	}
//
// # Configuration
//
// Configuration is done via the functional options pattern:
//
//	config, err := gen.NewConfig(
//	    gen.WithTarget("./web/src/model"),
//	    gen.WithTabWidth(2),
//	    gen.WithSingleQuotes(),
//	    gen.WithIndexFile(),
//	)
//
// # Usage
//
//	doc, err := load.LoadFile("model.json")
//	graph, err := gen.NewGraph(config, doc.Types...)
//	err = gen.NewGenerator(graph).Generate(ctx)
package gen
