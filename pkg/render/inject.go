package render

import (
	"encoding/base64"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// ContentStyle limits the width of injected pages on desktop and tightens
// typography on narrow screens.
const ContentStyle = `
<style>
    body {
        max-width: 800px;
        margin: 0 auto !important;
    }

    @media (max-width: 800px) {
        body {
            padding-left: 0.5rem !important;
            padding-right: 0.5rem !important;
            margin: 0 !important;
            max-width: 100%;
        }
        body, p, div, li, td, th { font-size: 1rem !important; line-height: 1.6 !important; word-wrap: break-word; }
        h1 { font-size: 1.5rem !important; line-height: 1.3 !important; }
        h2 { font-size: 1.3rem !important; line-height: 1.4 !important; }
        h3 { font-size: 1.2rem !important; line-height: 1.5 !important; }
    }
</style>
`

var (
	bodyOpenTag  = regexp.MustCompile(`(?i)<body.*?>`)
	headCloseTag = regexp.MustCompile(`(?i)</head>`)
)

// Image is an inline picture injected in front of page content.
type Image struct {
	MIMEType string
	Data     []byte
}

// MIMEForPath recognizes png and jpeg file names. Anything else yields "".
func MIMEForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return ""
	}
}

// ImageTag encodes img as a data URI <img> tag. A nil or empty image yields "".
func ImageTag(img *Image) string {
	if img == nil || img.MIMEType == "" || len(img.Data) == 0 {
		return ""
	}
	return fmt.Sprintf(
		`<img src="data:%s;base64,%s" alt="Ảnh nội dung" style="display: block; width: 100%%; height: auto; margin: 1em auto; border-radius: 8px;">`,
		img.MIMEType,
		base64.StdEncoding.EncodeToString(img.Data),
	)
}

// Inject places the image tag right after the first <body> tag (or in front
// of the fragment) and the content style right before </head> (or in front of
// everything). Applying Inject to its own output inserts both again.
func Inject(htmlContent string, img *Image) string {
	imageTag := ImageTag(img)

	if loc := bodyOpenTag.FindStringIndex(htmlContent); loc != nil {
		htmlContent = htmlContent[:loc[1]] + imageTag + htmlContent[loc[1]:]
	} else {
		htmlContent = imageTag + htmlContent
	}

	if loc := headCloseTag.FindStringIndex(htmlContent); loc != nil {
		htmlContent = htmlContent[:loc[0]] + ContentStyle + htmlContent[loc[0]:]
	} else {
		htmlContent = ContentStyle + htmlContent
	}

	return htmlContent
}
