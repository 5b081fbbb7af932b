package extraction

// DefaultPrompt instructs the extraction model to return only the text a
// narrator would read aloud.
const DefaultPrompt = "Print out all of the text in the paper that a narrator would read aloud. " +
	"Include the title and section headings. Do not include citation numbers. " +
	"Do not include acknowledgements, bibliography, reporting summary, or competing interests. " +
	"Do not preface with any text other than: This is an automated voice reading <The title of the paper> " +
	"by <The first author> et al."
