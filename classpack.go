// Package classpack consolidates repeated utility-class strings in built web
// output into short generated class names.
//
// It scans server-rendered HTML, client bundles and server component
// payloads, finds class combinations that repeat often enough to be worth a
// dedicated rule, emits that rule from the compiled utility stylesheet and
// rewrites the output to use it.
//
// # Analysis
//
// Report what would be consolidated without touching any file:
//
//	config := classpack.DefaultConfig()
//	config.BuildDir = ".next"
//	config.Stylesheet = ".next/static/css/app.css"
//	result, err := classpack.Analyze(ctx, config)
//
// # Optimization
//
// Rewrite the build output, write the generated stylesheet and a manifest:
//
//	config.CSSOut = ".next/static/css/classpack.css"
//	config.Manifest = ".next/classpack-manifest.json"
//	result, err := classpack.Optimize(ctx, config)
//
// # CLI Tool
//
// classpack also provides a CLI tool. Install with:
//
//	go install github.com/yacobolo/classpack/cmd/classpack@latest
package classpack
