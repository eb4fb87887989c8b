package core

import (
	"fmt"
	"sort"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the persisted domain types. Attribute
// keys are encoded in sorted order so identical records always produce
// identical bytes, which keeps snapshot fingerprints stable.

// CatalogRecordMUS serializes CatalogRecord values in the MUS format.
var CatalogRecordMUS = catalogRecordMUS{}

// VectorMUS serializes embedding vectors in the MUS format.
var VectorMUS = vectorMUS{}

type catalogRecordMUS struct{}

func (catalogRecordMUS) Marshal(r CatalogRecord, bs []byte) (n int) {
	n = ord.String.Marshal(r.ID, bs)
	n += ord.String.Marshal(r.Text, bs[n:])
	n += varint.Int.Marshal(len(r.Attributes), bs[n:])
	for _, k := range sortedAttrKeys(r.Attributes) {
		n += ord.String.Marshal(k, bs[n:])
		n += ord.String.Marshal(r.Attributes[k], bs[n:])
	}
	return n
}

func (catalogRecordMUS) Unmarshal(bs []byte) (r CatalogRecord, n int, err error) {
	r.ID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	r.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var count int
	count, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if count < 0 {
		err = fmt.Errorf("negative attribute count %d", count)
		return
	}
	if count > 0 {
		r.Attributes = make(map[string]string, count)
	}
	for i := 0; i < count; i++ {
		var k, v string
		k, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		v, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		r.Attributes[k] = v
	}
	return
}

func (catalogRecordMUS) Size(r CatalogRecord) (size int) {
	size = ord.String.Size(r.ID)
	size += ord.String.Size(r.Text)
	size += varint.Int.Size(len(r.Attributes))
	for k, v := range r.Attributes {
		size += ord.String.Size(k)
		size += ord.String.Size(v)
	}
	return size
}

type vectorMUS struct{}

func (vectorMUS) Marshal(v []float32, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, f := range v {
		n += varint.Float32.Marshal(f, bs[n:])
	}
	return n
}

func (vectorMUS) Unmarshal(bs []byte) (v []float32, n int, err error) {
	var count int
	count, n, err = varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	if count < 0 {
		err = fmt.Errorf("negative vector length %d", count)
		return
	}
	v = make([]float32, count)
	var n1 int
	for i := 0; i < count; i++ {
		v[i], n1, err = varint.Float32.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (vectorMUS) Size(v []float32) (size int) {
	size = varint.Int.Size(len(v))
	for _, f := range v {
		size += varint.Float32.Size(f)
	}
	return size
}

func sortedAttrKeys(attrs map[string]string) []string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
