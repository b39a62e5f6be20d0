// ABOUTME: Built-in station table shipped with the binary
// ABOUTME: Deploys may replace it from config; it is never changed at runtime
package station

var builtin = MustNewDirectory([]Station{
	{
		Slug:           "zwfm",
		StreamURL:      "https://audio.zuidwest.cloud/zuidwest",
		StreamName:     "zuidwest",
		Name:           "ZuidWest FM",
		Bluesky:        "zuidwestfm.bsky.social",
		Color:          "#e6007e",
		ColorDark:      "#b80065",
		OpenGraphImage: "https://cdn.zuidwestupdate.nl/NsUmF_oC7q3NnWIO89789QePS9Pfoimr_4HOZJNVq2I/rs:fill:1280:720:1/g:ce/aHR0cHM6Ly93d3cuenVpZHdlc3R1cGRhdGUubmwvd3AtY29udGVudC91cGxvYWRzLzIwMjEvMDYvc3R1ZGlvX3p3Zm1fcG9zdGVyLmpwZw.jpeg",
		FaviconURL:     "https://cdn.zuidwestupdate.nl/wp-content/uploads/favicon-zwfm.png",
		LogoURL:        "https://github.com/user-attachments/assets/9af614be-7f44-410b-844c-4bcbbac3dd99",
	},
	{
		Slug:           "rucphen",
		StreamURL:      "https://audio.zuidwest.cloud/rucphen",
		StreamName:     "rucphen",
		Name:           "Rucphen RTV",
		Bluesky:        "rucphenfm.bsky.social",
		Color:          "#003576",
		ColorDark:      "#002a5e",
		OpenGraphImage: "https://rucphenrtv.nl/wp-content/uploads/2021/07/20210717Studio.jpg",
		FaviconURL:     "https://rucphenrtv.nl/favicon.ico",
		LogoURL:        "https://rucphenrtv.nl/wp-content/uploads/logo-rucphen-square.png",
	},
})

// Default returns the built-in directory.
func Default() *Directory {
	return builtin
}

// Lookup resolves slug against the built-in directory.
func Lookup(slug string) (Station, bool) {
	return builtin.Lookup(slug)
}
