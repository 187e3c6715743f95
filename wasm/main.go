//go:build wasm

package main

import (
	"syscall/js"
)

func main() {
	// Export functions to JavaScript
	js.Global().Set("MultifastNewScanner", js.FuncOf(newScanner))
	js.Global().Set("MultifastScan", js.FuncOf(scan))
	js.Global().Set("MultifastScanBatch", js.FuncOf(scanBatch))
	js.Global().Set("MultifastCloseScanner", js.FuncOf(closeScanner))
	js.Global().Set("MultifastGetBuiltinRules", js.FuncOf(getBuiltinRules))

	// Keep WASM running
	<-make(chan struct{})
}
