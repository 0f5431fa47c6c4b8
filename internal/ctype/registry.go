package ctype

// The registry tables below are the whole story of alias resolution: one
// priority-ordered candidate list per (alias, platform) pair. macOS has a
// canonical UTI for everything, so its lists are singletons. X11 and Wayland
// negotiate MIME strings that vary by application, so several candidates are
// tried in order, richest first. The X11 text chain also carries the legacy
// ICCCM atoms (UTF8_STRING, STRING) that older clients still offer.

var darwinTable = map[Alias][]string{
	URL:  {"public.url"},
	Html: {"public.html"},
	Pdf:  {"com.adobe.pdf"},
	Png:  {"public.png"},
	Rtf:  {"public.rtf"},
	Text: {"public.utf8-plain-text"},
}

var windowsTable = map[Alias][]string{
	URL:  {"UniformResourceLocatorW", "UniformResourceLocator"},
	Html: {"HTML Format"},
	Pdf:  {"Portable Document Format"},
	Png:  {"PNG", "image/png"},
	Rtf:  {"Rich Text Format"},
	Text: {"CF_UNICODETEXT"},
}

var x11Table = map[Alias][]string{
	URL:  {"text/uri-list", "text/x-moz-url"},
	Html: {"text/html"},
	Pdf:  {"application/pdf"},
	Png:  {"image/png"},
	Rtf:  {"text/rtf", "application/rtf"},
	Text: {"text/plain;charset=utf-8", "UTF8_STRING", "text/plain", "STRING"},
}

var waylandTable = map[Alias][]string{
	URL:  {"text/uri-list", "text/x-moz-url"},
	Html: {"text/html"},
	Pdf:  {"application/pdf"},
	Png:  {"image/png"},
	Rtf:  {"text/rtf", "application/rtf"},
	Text: {"text/plain;charset=utf-8", "text/plain", "UTF8_STRING", "STRING"},
}

func table(p Platform) map[Alias][]string {
	switch p {
	case Darwin:
		return darwinTable
	case Windows:
		return windowsTable
	case X11:
		return x11Table
	case Wayland:
		return waylandTable
	}
	return nil
}

// Lookup returns the native identifier candidates for alias on platform,
// most-preferred first. The returned slice is non-empty for every supported
// (alias, platform) pair and must not be mutated.
func Lookup(a Alias, p Platform) []string {
	return table(p)[a]
}

// ReverseLookup maps a native identifier back to its portable alias, for
// annotating type listings. Every candidate of an alias reverse-maps to that
// alias; identifiers outside the tables have none, which is common on
// platforms with rich type systems.
func ReverseLookup(id string, p Platform) (Alias, bool) {
	for a, ids := range table(p) {
		for _, cand := range ids {
			if cand == id {
				return a, true
			}
		}
	}
	return 0, false
}
