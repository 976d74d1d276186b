package catcode

import "strconv"

// Well-known subtypes.
const (
	SubtypeAt     = "at"
	SubtypeFace   = "face"
	SubtypeBFace  = "bface"
	SubtypeSFace  = "sface"
	SubtypeImage  = "image"
	SubtypeRecord = "record"
	SubtypeRps    = "rps"
	SubtypeDice   = "dice"
	SubtypeShake  = "shake"
	SubtypeMusic  = "music"
	SubtypeShare  = "share"
)

// ImageOptions are the optional flags of an image code. Only flags that are
// set are written.
type ImageOptions struct {
	Flash    bool
	Destruct bool
}

// Template builds the well-known codes. T is string for a string template
// and *Code for a code template. Optional arguments left empty are omitted.
type Template[T any] interface {
	// At mentions the account identified by code.
	At(code string) T
	// AtAll mentions everyone: at,all=true.
	AtAll() T
	Face(id string) T
	BFace(id string) T
	SFace(id string) T
	Image(file string) T
	ImageWith(file string, opts ImageOptions) T
	Record(file string) T
	// RecordWith marks the voice record as voice-changed when magic is set.
	RecordWith(file string, magic bool) T
	// Rps is a rock-paper-scissors roll with a random result.
	Rps() T
	RpsType(kind string) T
	Dice() T
	DiceType(kind string) T
	// Shake is a poke; it has no parameters.
	Shake() T
	// Music shares a song of platform kind, e.g. "qq" or "163".
	Music(kind, id, style string) T
	// CustomMusic shares a song by URL: music,type=custom,...
	CustomMusic(url, audio, title, content, image string) T
	Share(url, title, content, image string) T
}

// template implements Template over any builder kind.
type template[T any] struct {
	newBuilder func(subtype string) *Builder[T]
}

// build assigns kv pairs in order.
func (t template[T]) build(subtype string, kv ...string) T {
	b := t.newBuilder(subtype)
	for i := 0; i+1 < len(kv); i += 2 {
		b.Key(kv[i]).Value(kv[i+1])
	}
	return b.MustBuild()
}

// optional returns kv without pairs whose value is empty.
func optional(kv ...string) []string {
	out := kv[:0:0]
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			out = append(out, kv[i], kv[i+1])
		}
	}
	return out
}

func (t template[T]) At(code string) T { return t.build(SubtypeAt, "code", code) }
func (t template[T]) AtAll() T         { return t.build(SubtypeAt, "all", "true") }
func (t template[T]) Face(id string) T  { return t.build(SubtypeFace, "id", id) }
func (t template[T]) BFace(id string) T { return t.build(SubtypeBFace, "id", id) }
func (t template[T]) SFace(id string) T { return t.build(SubtypeSFace, "id", id) }

func (t template[T]) Image(file string) T { return t.build(SubtypeImage, "file", file) }

func (t template[T]) ImageWith(file string, opts ImageOptions) T {
	kv := []string{"file", file}
	if opts.Flash {
		kv = append(kv, "flash", "true")
	}
	if opts.Destruct {
		kv = append(kv, "destruct", "true")
	}
	return t.build(SubtypeImage, kv...)
}

func (t template[T]) Record(file string) T { return t.build(SubtypeRecord, "file", file) }

func (t template[T]) RecordWith(file string, magic bool) T {
	return t.build(SubtypeRecord, "file", file, "magic", strconv.FormatBool(magic))
}

func (t template[T]) Rps() T                 { return t.build(SubtypeRps) }
func (t template[T]) RpsType(kind string) T  { return t.build(SubtypeRps, "type", kind) }
func (t template[T]) Dice() T                { return t.build(SubtypeDice) }
func (t template[T]) DiceType(kind string) T { return t.build(SubtypeDice, "type", kind) }
func (t template[T]) Shake() T               { return t.build(SubtypeShake) }

func (t template[T]) Music(kind, id, style string) T {
	return t.build(SubtypeMusic, append([]string{"type", kind, "id", id}, optional("style", style)...)...)
}

func (t template[T]) CustomMusic(url, audio, title, content, image string) T {
	kv := []string{"type", "custom", "url", url, "audio", audio, "title", title}
	kv = append(kv, optional("content", content, "image", image)...)
	return t.build(SubtypeMusic, kv...)
}

func (t template[T]) Share(url, title, content, image string) T {
	kv := []string{"url", url, "title", title}
	kv = append(kv, optional("content", content, "image", image)...)
	return t.build(SubtypeShare, kv...)
}

// IsAtAll reports whether v mentions everyone, either as at,all=true or as
// the older at,code=all.
func IsAtAll(v View) bool {
	if v.Subtype() != SubtypeAt {
		return false
	}
	if all, ok := v.Get("all"); ok && all == "true" {
		return true
	}
	code, ok := v.Get("code")
	return ok && code == "all"
}
