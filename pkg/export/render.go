package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/mangaport/mangaport/pkg/layout"
	"github.com/mangaport/mangaport/pkg/models"
)

// The renderers below build every text artifact of the EPUB tree. They are
// pure functions: identical inputs (including the supplied timestamp)
// produce identical output, and all hrefs come from pkg/layout so they
// always agree with the files the orchestrator writes.

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8"?>`

// generatorName identifies the exporting tool in attribution text and
// package metadata.
const generatorName = "mangaport"

const generatorURL = "https://github.com/mangaport/mangaport"

// RenderStartDocument renders the attribution page naming the section
// title, the source platform, and the exporting tool's identity.
func RenderStartDocument(section *models.Section, platform *models.Platform, operator, version string) string {
	var b strings.Builder
	b.WriteString(xmlDeclaration + "\n")
	b.WriteString(`<html xmlns="http://www.w3.org/1999/xhtml" lang="en">` + "\n")
	b.WriteString("   <head>\n")
	fmt.Fprintf(&b, "      <title>%s - About</title>\n", escapeXML(section.Name))
	fmt.Fprintf(&b, "      <link href=%q rel=\"stylesheet\" type=\"text/css\" />\n", layout.Stylesheet)
	b.WriteString("   </head>\n")
	b.WriteString("   <body>\n")
	b.WriteString("      <h1>Copyright</h1>\n")
	fmt.Fprintf(&b, "      <p>Title: %s</p>\n", escapeXML(section.Name))
	b.WriteString("      <p>\n")
	fmt.Fprintf(&b, "         Source: <a href=%q>%s</a>\n", escapeXML(platform.URL), escapeXML(platform.Name))
	b.WriteString("      </p>\n")
	fmt.Fprintf(&b, "      <p>Operator: %s(%s)</p>\n", escapeXML(operator), escapeXML(version))
	b.WriteString("      <hr />\n")
	b.WriteString("      <p>\n")
	b.WriteString("         This book was generated by the open source project\n")
	fmt.Fprintf(&b, "         <a href=%q>%s</a>\n", generatorURL, strings.ToUpper(generatorName))
	b.WriteString("         from third-party resources.\n")
	b.WriteString("      </p>\n")
	b.WriteString("      <strong>Note: redistributing this file publicly may expose you to claims from the rights holder.</strong>\n")
	b.WriteString("   </body>\n")
	b.WriteString("</html>")
	return b.String()
}

// RenderPageDocument renders the minimal viewer page that displays a single
// image filling the viewport.
func RenderPageDocument(pageLabel, imageHref string) string {
	var b strings.Builder
	b.WriteString(xmlDeclaration + "\n")
	b.WriteString(`<html xmlns="http://www.w3.org/1999/xhtml">` + "\n")
	b.WriteString("   <head>\n")
	fmt.Fprintf(&b, "      <title>%s</title>\n", escapeXML(pageLabel))
	fmt.Fprintf(&b, "      <link href=%q rel=\"stylesheet\" type=\"text/css\" />\n", layout.Stylesheet)
	b.WriteString("   </head>\n")
	b.WriteString(`   <body class="album">` + "\n")
	fmt.Fprintf(&b, "      <img class=\"albumimg\" src=%q />\n", escapeXML(imageHref))
	b.WriteString("   </body>\n")
	b.WriteString("</html>")
	return b.String()
}

// RenderManifest renders the OPF package manifest: the identity metadata
// block, one manifest item and one spine entry per page in reading order,
// the fixed navigation/stylesheet/start entries, and a cover image entry
// pointing at page index 0.
func RenderManifest(section *models.Section, uuid, version string, now time.Time) string {
	cover := coverPage(section)

	var b strings.Builder
	b.WriteString(xmlDeclaration + "\n")
	b.WriteString(`<package xmlns="http://www.idpf.org/2007/opf" unique-identifier="uuid_id" version="2.0">` + "\n")
	b.WriteString(`   <metadata xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:opf="http://www.idpf.org/2007/opf">` + "\n")
	fmt.Fprintf(&b, "      <dc:title>%s</dc:title>\n", escapeXML(section.Name))
	b.WriteString(`      <dc:creator opf:role="aut" opf:file-as="MANGAPORT">MANGAPORT</dc:creator>` + "\n")
	fmt.Fprintf(&b, "      <dc:identifier opf:scheme=\"uuid\" id=\"uuid_id\">%s</dc:identifier>\n", uuid)
	fmt.Fprintf(&b, "      <dc:publisher>%s</dc:publisher>\n", generatorName)
	fmt.Fprintf(&b, "      <dc:contributor opf:file-as=%q opf:role=\"bkp\">%s (%s) [%s]</dc:contributor>\n", generatorName, generatorName, escapeXML(version), generatorURL)
	fmt.Fprintf(&b, "      <dc:date>%s</dc:date>\n", now.Format(time.RFC3339))
	b.WriteString("      <dc:language>eng</dc:language>\n")
	b.WriteString(`      <meta name="cover" content="cover" />` + "\n")
	b.WriteString("   </metadata>\n")
	b.WriteString("   <manifest>\n")
	fmt.Fprintf(&b, "      <item href=%q id=\"ncx\" media-type=\"application/x-dtbncx+xml\" />\n", layout.Navigation)
	fmt.Fprintf(&b, "      <item href=%q id=\"css\" media-type=\"text/css\" />\n", layout.Stylesheet)
	fmt.Fprintf(&b, "      <item href=%q id=\"start\" media-type=\"application/xhtml+xml\" />\n", layout.StartDocument)
	for _, p := range section.Pages {
		fmt.Fprintf(&b, "      <item href=%q id=\"page%d\" media-type=\"application/xhtml+xml\" />\n", layout.PageDocumentName(p), p.Index)
		fmt.Fprintf(&b, "      <item href=%q id=\"img%d\" media-type=%q />\n", layout.PageImageName(p), p.Index, p.MIME)
	}
	fmt.Fprintf(&b, "      <item href=%q id=\"cover\" media-type=%q />\n", layout.CoverName(cover), cover.MIME)
	b.WriteString("   </manifest>\n")
	b.WriteString(`   <spine toc="ncx">` + "\n")
	b.WriteString(`      <itemref idref="start" />` + "\n")
	for _, p := range section.Pages {
		fmt.Fprintf(&b, "      <itemref idref=\"page%d\" />\n", p.Index)
	}
	b.WriteString("   </spine>\n")
	b.WriteString("   <guide />\n")
	b.WriteString("</package>")
	return b.String()
}

// RenderNavigation renders the NCX navigation map: the attribution page at
// play order 0 followed by one navigation point per page.
func RenderNavigation(section *models.Section, uuid string) string {
	var b strings.Builder
	b.WriteString(xmlDeclaration + "\n")
	b.WriteString(`<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1" xml:lang="en">` + "\n")
	b.WriteString("   <head>\n")
	fmt.Fprintf(&b, "      <meta content=%q name=\"dtb:uid\" />\n", uuid)
	b.WriteString(`      <meta content="2" name="dtb:depth" />` + "\n")
	fmt.Fprintf(&b, "      <meta content=%q name=\"dtb:generator\" />\n", generatorName)
	b.WriteString(`      <meta content="0" name="dtb:totalPageCount" />` + "\n")
	b.WriteString(`      <meta content="0" name="dtb:maxPageNumber" />` + "\n")
	b.WriteString("   </head>\n")
	b.WriteString("   <docTitle>\n")
	fmt.Fprintf(&b, "      <text>%s</text>\n", escapeXML(section.Name))
	b.WriteString("   </docTitle>\n")
	b.WriteString("   <navMap>\n")
	b.WriteString(`      <navPoint id="navPoint-00" playOrder="0">` + "\n")
	b.WriteString("         <navLabel>\n")
	b.WriteString("            <text>About</text>\n")
	b.WriteString("         </navLabel>\n")
	fmt.Fprintf(&b, "         <content src=%q />\n", layout.StartDocument)
	b.WriteString("      </navPoint>\n")
	for _, p := range section.Pages {
		fmt.Fprintf(&b, "      <navPoint id=\"navPoint-%d\" playOrder=\"%d\">\n", p.Index, p.Index)
		b.WriteString("         <navLabel>\n")
		fmt.Fprintf(&b, "            <text>%dP</text>\n", p.Index)
		b.WriteString("         </navLabel>\n")
		fmt.Fprintf(&b, "         <content src=%q />\n", layout.PageDocumentName(p))
		b.WriteString("      </navPoint>\n")
	}
	b.WriteString("   </navMap>\n")
	b.WriteString("</ncx>")
	return b.String()
}

// RenderStylesheet returns the fixed stylesheet that makes a single
// centered image fill the viewport.
func RenderStylesheet() string {
	return `* {
   padding: 0;
   margin: 0;
}

.album {
   background: #000000;
   height: 100%;
   text-align: center;
   vertical-align: top;
}

.albumimg {
   margin: 0;
   height: 100%;
   text-align: center;
   vertical-align: top;
}`
}

// RenderContainerDescriptor returns the fixed OCF container descriptor
// pointing at the package manifest.
func RenderContainerDescriptor() string {
	var b strings.Builder
	b.WriteString(xmlDeclaration + "\n")
	b.WriteString(`<container xmlns="urn:oasis:names:tc:opendocument:xmlns:container" version="1.0">` + "\n")
	b.WriteString("   <rootfiles>\n")
	fmt.Fprintf(&b, "      <rootfile full-path=%q media-type=\"application/oebps-package+xml\" />\n", layout.Manifest)
	b.WriteString("   </rootfiles>\n")
	b.WriteString("</container>")
	return b.String()
}

// coverPage returns the designated cover source: the page with index 0, or
// the first registered page when no page carries index 0.
func coverPage(section *models.Section) *models.Page {
	if cover := section.Cover(); cover != nil {
		return cover
	}
	return section.Pages[0]
}

func escapeXML(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '&':
			b.WriteString("&amp;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&apos;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
