package export

import (
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// exportHTML renders rows as a standalone HTML table
func (e *Exporter) exportHTML(rows []Row, w io.Writer) error {
	table := element(atom.Table)

	if e.config.IncludeHeader {
		thead := element(atom.Thead)
		tr := element(atom.Tr)
		for _, name := range e.config.header() {
			tr.AppendChild(cell(atom.Th, name))
		}
		thead.AppendChild(tr)
		table.AppendChild(thead)
	}

	tbody := element(atom.Tbody)
	for _, row := range rows {
		tr := element(atom.Tr)
		tr.Attr = []html.Attribute{{Key: "data-page", Val: fmt.Sprint(row.Page)}}
		for _, value := range row.cells() {
			tr.AppendChild(cell(atom.Td, value))
		}
		tbody.AppendChild(tr)
	}
	table.AppendChild(tbody)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	root := element(atom.Html)
	head := element(atom.Head)
	meta := element(atom.Meta)
	meta.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}
	head.AppendChild(meta)
	root.AppendChild(head)
	body := element(atom.Body)
	body.AppendChild(table)
	root.AppendChild(body)
	doc.AppendChild(root)

	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("rendering html: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

func cell(a atom.Atom, text string) *html.Node {
	n := element(a)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}
