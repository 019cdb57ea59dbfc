package sosi

// headerBlocks are the .HODE attributes that open a nested ... block
var headerBlocks = map[string]bool{
	"TRANSPAR": true,
	"OMRÅDE":   true,
}

// liftedKeys maps TRANSPAR sub-keys to the top-level header keys they are
// copied to after the header is read.
var liftedKeys = []struct{ from, to string }{
	{"KOORDSYS", "KOORDINATSYSTEM"},
	{"ORIGO-NØ", "ORIGO-NØ"},
	{"ENHET", "ENHET"},
}

// Header is the parsed .HODE block.
//
// Attrs holds the scalar attributes. Blocks holds the nested TRANSPAR and
// OMRÅDE sub-attributes. The TRANSPAR keys KOORDSYS, ORIGO-NØ and ENHET are
// also present in Attrs as KOORDINATSYSTEM, ORIGO-NØ and ENHET.
type Header struct {
	Attrs  Attributes
	Blocks map[string]Attributes
}

func newHeader() *Header {
	return &Header{
		Attrs:  make(Attributes),
		Blocks: make(map[string]Attributes),
	}
}

// Has reports whether key is set, either as a valued attribute or as a
// nested block.
func (h *Header) Has(key string) bool {
	if h == nil {
		return false
	}
	if _, ok := h.Blocks[key]; ok {
		return true
	}
	return h.Attrs.Has(key)
}

// Get returns the scalar header attribute stored under key
func (h *Header) Get(key string) (Value, bool) {
	if h == nil {
		return NoValue(), false
	}
	return h.Attrs.Get(key)
}

// Block returns a nested header block by name
func (h *Header) Block(name string) (Attributes, bool) {
	if h == nil {
		return nil, false
	}
	b, ok := h.Blocks[name]
	return b, ok
}

// CoordinateSystem returns the coordinate system code, read from
// KOORDINATSYSTEM and then KOORDSYS.
func (h *Header) CoordinateSystem() (Value, bool) {
	for _, key := range []string{"KOORDINATSYSTEM", "KOORDSYS"} {
		if h.Has(key) {
			v, _ := h.Get(key)
			return v, true
		}
	}
	return NoValue(), false
}

// Charset returns TEGNSETT or "" when unset
func (h *Header) Charset() string {
	return h.text("TEGNSETT")
}

// Version returns SOSI-VERSJON or "" when unset
func (h *Header) Version() string {
	return h.text("SOSI-VERSJON")
}

// Owner returns EIER or "" when unset
func (h *Header) Owner() string {
	return h.text("EIER")
}

func (h *Header) text(key string) string {
	v, ok := h.Get(key)
	if !ok {
		return ""
	}
	return v.Text()
}

// lift copies the TRANSPAR convenience keys to the top level
func (h *Header) lift() {
	transpar, ok := h.Blocks["TRANSPAR"]
	if !ok {
		return
	}
	for _, k := range liftedKeys {
		if v, ok := transpar[k.from]; ok {
			h.Attrs[k.to] = v
		}
	}
}
