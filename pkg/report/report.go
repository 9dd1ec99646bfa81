// Package report assembles the transcoded images into a single .docx
// document whose section headings mirror the scanned folder hierarchy.
package report

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"baliance.com/gooxml/common"
	"baliance.com/gooxml/document"
	"baliance.com/gooxml/measurement"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rcsoft/photoreport/pkg/pathmap"
	"github.com/rcsoft/photoreport/pkg/scanner"
)

// Options holds configuration for the report builder
type Options struct {
	// Title is the document's top-level heading text.
	Title string
	// PictureWidth is the display width of every embedded picture. The
	// display height is derived from each picture's own pixel dimensions.
	PictureWidth measurement.Distance
	// CaptionPrefix is prepended to each image filename in its caption.
	CaptionPrefix string
}

// DefaultOptions returns the options used by the original tool.
func DefaultOptions() Options {
	return Options{
		Title:         "Documento de Imágenes",
		PictureWidth:  4 * measurement.Inch,
		CaptionPrefix: "Imagen: ",
	}
}

// Builder generates the .docx report for a scan result.
type Builder struct {
	opts Options
}

// New creates a new Builder with default options
func New() *Builder {
	return &Builder{opts: DefaultOptions()}
}

// NewWithOptions creates a new Builder with custom options
func NewWithOptions(opts Options) *Builder {
	if opts.PictureWidth == 0 {
		opts.PictureWidth = DefaultOptions().PictureWidth
	}
	return &Builder{opts: opts}
}

// Build writes one document to docPath containing, per folder entry in scan
// order, a heading derived from the folder's path relative to inputRoot,
// then each of its images (read from the mirrored location under outputRoot)
// with a caption, then a blank separator paragraph. A missing transcoded
// file is an error; nothing is saved in that case.
func (b *Builder) Build(entries []scanner.FolderEntry, inputRoot, outputRoot, docPath string) error {
	doc := document.New()

	title := doc.AddParagraph()
	title.SetStyle("Heading1")
	title.AddRun().AddText(b.opts.Title)

	for _, entry := range entries {
		rel, err := filepath.Rel(inputRoot, entry.Path)
		if err != nil {
			return fmt.Errorf("failed to resolve relative path of %s: %w", entry.Path, err)
		}

		heading := doc.AddParagraph()
		heading.SetStyle("Heading2")
		heading.AddRun().AddText(SectionTitle(rel))

		for _, name := range entry.Images {
			imgPath, err := pathmap.OutputPath(inputRoot, outputRoot, entry.Path, name)
			if err != nil {
				return err
			}
			if err := b.addPicture(doc, imgPath); err != nil {
				return err
			}
			doc.AddParagraph().AddRun().AddText(b.opts.CaptionPrefix + name)
		}

		// Separator between sections.
		doc.AddParagraph()
	}

	if err := doc.SaveToFile(docPath); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

// addPicture embeds the image at path as an inline drawing scaled to the
// configured display width.
func (b *Builder) addPicture(doc *document.Document, path string) error {
	img, err := common.ImageFromFile(path)
	if err != nil {
		return fmt.Errorf("failed to read image %s: %w", path, err)
	}
	ref, err := doc.AddImage(img)
	if err != nil {
		return fmt.Errorf("failed to add image %s: %w", path, err)
	}

	w, h, err := pixelSize(path)
	if err != nil {
		return fmt.Errorf("failed to measure image %s: %w", path, err)
	}

	inline, err := doc.AddParagraph().AddRun().AddDrawingInline(ref)
	if err != nil {
		return fmt.Errorf("failed to embed image %s: %w", path, err)
	}
	inline.SetSize(b.opts.PictureWidth, b.opts.PictureWidth*measurement.Distance(h)/measurement.Distance(w))
	return nil
}

// pixelSize reads an image file's dimensions without decoding its pixels.
// The format is sniffed from the content, not the filename, since transcoded
// files are JPEG regardless of extension.
func pixelSize(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// SectionTitle turns a folder path relative to the input root into a heading:
// per segment, underscores become spaces and words are title-cased; segments
// are joined by ", ".
func SectionTitle(rel string) string {
	caser := cases.Title(language.Und)
	segments := strings.Split(rel, string(filepath.Separator))
	titled := make([]string, 0, len(segments))
	for _, s := range segments {
		titled = append(titled, caser.String(strings.ReplaceAll(s, "_", " ")))
	}
	return strings.Join(titled, ", ")
}
