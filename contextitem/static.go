package contextitem

// StaticItem is fixed text, for instance a pasted snippet or a note.
type StaticItem struct {
	Desc string
	Src  string
	Text string
}

// NewStaticItem returns a StaticItem.
func NewStaticItem(description, source, content string) *StaticItem {
	return &StaticItem{Desc: description, Src: source, Text: content}
}

func (s *StaticItem) Source() string      { return s.Src }
func (s *StaticItem) Description() string { return s.Desc }
func (s *StaticItem) Content() string     { return s.Text }

func (s *StaticItem) String() string {
	return render(s.Desc, s.Src, s.Text)
}
