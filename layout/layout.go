// Package layout implements the C8 field-group layout component: a
// memoized-per-type scan of a struct's annotated primitive fields into
// an ordered group-name -> (start, end) table, plus construction of an
// on-heap store directly over a host object's memory. spec.md's design
// notes treat the reflection mechanism itself as not required ("the
// core semantics require only the final startOf(group)/lengthOf(group)
// mapping"), but no grouping package exists anywhere in the retrieved
// corpus, so the mechanism is built here, grounded on the
// double-checked-locking plan cache in
// rawbytedev-fractus/fractus_improv.go's getPlan.
package layout

import (
	"fmt"
	"math/bits"
	"reflect"
	"sort"
	"sync"
	"unsafe"

	"github.com/vishifu/zarp-byte/platform"
	"github.com/vishifu/zarp-byte/refcount"
	"github.com/vishifu/zarp-byte/store"
)

// GroupTag is the struct tag key naming a field's group, e.g.
// `group:"header"`.
const GroupTag = "group"

// Group is a named contiguous run of same-tagged primitive fields.
type Group struct {
	Name       string
	Start, End int64
}

// Length returns End - Start.
func (g Group) Length() int64 { return g.End - g.Start }

// Plan is the memoized per-type scan result: the group table plus a
// one-byte schema-fingerprint description.
type Plan struct {
	groups      map[string]Group
	order       []string
	description byte
}

// Group looks up a named group.
func (p *Plan) Group(name string) (Group, bool) {
	g, ok := p.groups[name]
	return g, ok
}

// Groups returns group names in the order their runs were closed.
func (p *Plan) Groups() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Description returns the one-byte schema fingerprint: counts of
// long/int/short/byte fields (mod their bit width) packed with a
// parity bit, per spec.md §4.7.
func (p *Plan) Description() byte { return p.description }

var (
	planMu    sync.RWMutex
	planCache = map[reflect.Type]*Plan{}
)

// PlanFor returns the memoized Plan for struct type t, building and
// caching it on first use behind a double-checked read/write lock,
// mirroring fractus_improv.go's getPlan.
func PlanFor(t reflect.Type) (*Plan, error) {
	planMu.RLock()
	p, ok := planCache[t]
	planMu.RUnlock()
	if ok {
		return p, nil
	}

	planMu.Lock()
	defer planMu.Unlock()
	if p, ok := planCache[t]; ok {
		return p, nil
	}
	p, err := buildPlan(t)
	if err != nil {
		return nil, err
	}
	planCache[t] = p
	return p, nil
}

type scannedField struct {
	group  string
	kind   platform.PrimitiveKind
	offset int64
	size   int64
}

func buildPlan(t reflect.Type) (*Plan, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("layout: %s is not a struct type", t)
	}

	var fields []scannedField
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue // unexported: excluded, same as "excluding static" fields
		}
		group, ok := sf.Tag.Lookup(GroupTag)
		if !ok || group == "" {
			continue
		}
		kind := kindOf(sf.Type)
		if kind == platform.KindUnknown {
			continue
		}
		fields = append(fields, scannedField{
			group:  group,
			kind:   kind,
			offset: int64(sf.Offset),
			size:   platform.SizeOf(kind),
		})
	}

	sort.Slice(fields, func(i, j int) bool { return fields[i].offset < fields[j].offset })

	groups := map[string]Group{}
	var order []string
	var longCount, intCount, shortCount, byteCount int

	var curName string
	var curStart, curEnd int64
	open := false

	flush := func() {
		if open {
			groups[curName] = Group{Name: curName, Start: curStart, End: curEnd}
			order = append(order, curName)
		}
	}

	for _, f := range fields {
		start := f.offset
		end := start + f.size

		switch f.kind {
		case platform.KindLong, platform.KindDouble:
			longCount++
		case platform.KindInt, platform.KindFloat:
			intCount++
		case platform.KindShort:
			shortCount++
		case platform.KindByte, platform.KindBool:
			byteCount++
		}

		if !open || f.group != curName {
			// A later field with the same group name that follows a
			// different group closes the earlier run rather than
			// reopening it: this branch always starts a fresh run,
			// so a name reused after an interruption simply
			// overwrites the earlier entry in groups/order.
			flush()
			curName = f.group
			curStart = start
			open = true
		}
		curEnd = end
	}
	flush()

	desc := byte(longCount&0x3)<<6 | byte(intCount&0x3)<<4 | byte(shortCount&0x3)<<2 | byte(byteCount&0x1)<<1
	parity := byte(bits.OnesCount8(desc) & 1)
	desc |= parity

	return &Plan{groups: groups, order: order, description: desc}, nil
}

func kindOf(t reflect.Type) platform.PrimitiveKind {
	switch t.Kind() {
	case reflect.Bool:
		return platform.KindBool
	case reflect.Int8, reflect.Uint8:
		return platform.KindByte
	case reflect.Int16, reflect.Uint16:
		return platform.KindShort
	case reflect.Int32, reflect.Uint32:
		return platform.KindInt
	case reflect.Float32:
		return platform.KindFloat
	case reflect.Int64, reflect.Uint64, reflect.Int, reflect.Uint:
		return platform.KindLong
	case reflect.Float64:
		return platform.KindDouble
	default:
		return platform.KindUnknown
	}
}

// WrapGroup builds an on-heap store.Store directly over hostPtr's
// memory: dataOffset is startOf(group)+padding and capacity is
// lengthOf(group)-padding, a zero-copy binary view over a structured
// object. hostPtr must be a pointer to the struct whose type was
// scanned for group.
func WrapGroup(owner refcount.Owner, hostPtr interface{}, group string, padding int64) (store.Store, error) {
	v := reflect.ValueOf(hostPtr)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("layout: WrapGroup requires a pointer to a struct, got %T", hostPtr)
	}
	t := v.Elem().Type()

	plan, err := PlanFor(t)
	if err != nil {
		return nil, err
	}
	g, ok := plan.Group(group)
	if !ok {
		return nil, fmt.Errorf("layout: type %s has no group %q", t, group)
	}

	dataOffset := g.Start + padding
	length := g.Length() - padding
	if length < 0 {
		return nil, fmt.Errorf("layout: padding %d exceeds group %q length %d", padding, group, g.Length())
	}

	structSize := int64(t.Size())
	base := (*byte)(unsafe.Pointer(v.Pointer()))
	full := unsafe.Slice(base, structSize)

	return store.NewOnHeap(owner, full, dataOffset, length, length), nil
}
