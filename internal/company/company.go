// Package company exposes typed views over company records in the companies
// dataset. Views never fail: a field with an unexpected shape is reported as
// absent so heterogeneous records can be walked without type assertions at
// every call site.
package company

import (
	"strconv"

	"github.com/kingrea/primary-risks/internal/jsondoc"
)

// PrimaryRisksN is the bullet number that carries a company's primary risks.
const PrimaryRisksN = 5

// Record is one element of the dataset's root array.
type Record struct {
	Index  int
	Slug   string
	Ticker string
	NameEN string

	obj *jsondoc.Object
}

// FromValue builds a Record view. ok is false when the element is not an object.
func FromValue(index int, v jsondoc.Value) (Record, bool) {
	obj, ok := v.(*jsondoc.Object)
	if !ok {
		return Record{Index: index}, false
	}
	return Record{
		Index:  index,
		Slug:   stringField(obj, "slug"),
		Ticker: stringField(obj, "ticker"),
		NameEN: stringField(obj, "name_en"),
		obj:    obj,
	}, true
}

// Label names the record for logs and review screens.
func (r Record) Label() string {
	switch {
	case r.Slug != "":
		return r.Slug
	case r.Ticker != "":
		return r.Ticker
	case r.NameEN != "":
		return r.NameEN
	default:
		return "#" + strconv.Itoa(r.Index)
	}
}

// Outlook returns the record's outlook when it is a non-empty object.
func (r Record) Outlook() (Outlook, bool) {
	v, ok := r.obj.Get("outlook")
	if !ok || !jsondoc.Truthy(v) {
		return Outlook{}, false
	}
	obj, ok := v.(*jsondoc.Object)
	if !ok {
		return Outlook{}, false
	}
	return Outlook{obj: obj}, true
}

// Outlook is a company's forward-looking section.
type Outlook struct {
	obj *jsondoc.Object
}

// Bullets returns the outlook bullets. ok is false when "bullets" is missing
// or is not an array. Elements that are not objects are left out.
func (o Outlook) Bullets() ([]*Bullet, bool) {
	v, ok := o.obj.Get("bullets")
	if !ok {
		return nil, false
	}
	arr, ok := v.(*jsondoc.Array)
	if !ok {
		return nil, false
	}
	bullets := make([]*Bullet, 0, arr.Len())
	for i, item := range arr.Items {
		obj, ok := item.(*jsondoc.Object)
		if !ok {
			continue
		}
		bullets = append(bullets, newBullet(i, obj))
	}
	return bullets, true
}

// Bullet is one numbered point of an outlook.
type Bullet struct {
	// Index is the bullet's position within the bullets array.
	Index int
	// N is the bullet number; nil when absent or not a number.
	N *float64
	// Risks holds the discrete risk statements when "risks" is an array of
	// strings. RisksPresent is true whenever the key exists, whatever its shape.
	Risks        []string
	RisksValid   bool
	RisksPresent bool
	// Body is the raw "body" value; nil when the key is absent.
	Body jsondoc.Value

	obj *jsondoc.Object
}

func newBullet(index int, obj *jsondoc.Object) *Bullet {
	b := &Bullet{Index: index, obj: obj}
	if v, ok := obj.Get("n"); ok {
		if num, ok := v.(jsondoc.Number); ok {
			if f, err := num.Float64(); err == nil {
				b.N = &f
			}
		}
	}
	if v, ok := obj.Get("risks"); ok {
		b.RisksPresent = true
		b.Risks, b.RisksValid = stringList(v)
	}
	if v, ok := obj.Get("body"); ok {
		b.Body = v
	}
	return b
}

// Is reports whether the bullet is numbered n.
func (b *Bullet) Is(n int) bool {
	return b.N != nil && *b.N == float64(n)
}

// HasBody reports whether the bullet already carries narrative text.
func (b *Bullet) HasBody() bool {
	return jsondoc.Truthy(b.Body)
}

// ReplaceRisks stores body as the bullet's narrative and drops the risks list.
// An existing "body" key keeps its position; otherwise it is appended.
func (b *Bullet) ReplaceRisks(body string) {
	b.obj.Set("body", jsondoc.String(body))
	b.obj.Delete("risks")
	b.Body = jsondoc.String(body)
	b.Risks = nil
	b.RisksValid = false
	b.RisksPresent = false
}

func stringList(v jsondoc.Value) ([]string, bool) {
	arr, ok := v.(*jsondoc.Array)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, arr.Len())
	for _, item := range arr.Items {
		s, ok := item.(jsondoc.String)
		if !ok {
			return nil, false
		}
		out = append(out, string(s))
	}
	return out, true
}

func stringField(obj *jsondoc.Object, key string) string {
	v, ok := obj.Get(key)
	if !ok {
		return ""
	}
	s, ok := v.(jsondoc.String)
	if !ok {
		return ""
	}
	return string(s)
}
