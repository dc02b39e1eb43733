// Package capture renders playlist HTML pages to PNG screenshots.
//
// A Renderer owns the browser; ChromeRenderer drives a single headless Chrome
// tab through chromedp and reuses it for every page. The Capturer maps a
// playlist entry to <html_dir>/<name>.html and <image_dir>/<name><suffix>.png,
// and Stage runs it over every enabled entry as a pipeline stage.
package capture
