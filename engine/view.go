package engine

// ============================================================================
// RECORD VIEW — Zero-Copy Data Access Interface
// ============================================================================
// The engine never owns caller data. It reads through this interface.
//
// Implementations:
//   DomainView[T]  — reads typed structs via accessor functions (zero-copy)
//   SubView        — filtered subset (indices into parent, zero-copy)
//
// Views are read-only: no query mutates shared rows, so a single view can be
// shared by queries running on different goroutines.
// ============================================================================

// RecordView provides indexed access to a dataset.
// The engine calls Dimension/Measure in tight loops — keep implementations fast.
type RecordView interface {
	Len() int
	Dimension(index int, key string) string
	Measure(index int, key string) float64
	DimensionKeys() []string
	MeasureKeys() []string
}

// ============================================================================
// SUB VIEW — filtered subset (zero-copy)
// ============================================================================

// SubView is a filtered subset of a parent RecordView.
// Holds indices into the parent — no data copy.
type SubView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.indices) {
		return ""
	}
	return v.parent.Dimension(v.indices[i], key)
}

func (v *SubView) Measure(i int, key string) float64 {
	if i < 0 || i >= len(v.indices) {
		return 0
	}
	return v.parent.Measure(v.indices[i], key)
}

func (v *SubView) DimensionKeys() []string { return v.parent.DimensionKeys() }
func (v *SubView) MeasureKeys() []string   { return v.parent.MeasureKeys() }

// ============================================================================
// DOMAIN ADAPTER — Zero-copy typed struct access
// ============================================================================
//
// Usage:
//
//	adapter := engine.NewDomainAdapter[Delivery]().
//	    Dimension("bowler", func(d Delivery) string { return d.Bowler }).
//	    Measure("total_runs", func(d Delivery) float64 { return float64(d.TotalRuns) })
//
//	view := adapter.Bind(deliveries)
//	result, _ := engine.Execute(query, view, opts...)
//
// ============================================================================

// DomainAdapter maps the fields of T to dimension and measure keys.
// Register accessors once at package level; Bind is cheap.
type DomainAdapter[T any] struct {
	dimKeys  []string
	measKeys []string
	dims     map[string]func(T) string
	meas     map[string]func(T) float64
}

func NewDomainAdapter[T any]() *DomainAdapter[T] {
	return &DomainAdapter[T]{
		dims: make(map[string]func(T) string),
		meas: make(map[string]func(T) float64),
	}
}

// Dimension registers fn as the accessor for key. Re-registering a key
// replaces its accessor and keeps its position.
func (a *DomainAdapter[T]) Dimension(key string, fn func(T) string) *DomainAdapter[T] {
	if _, ok := a.dims[key]; !ok {
		a.dimKeys = append(a.dimKeys, key)
	}
	a.dims[key] = fn
	return a
}

// Measure registers fn as the numeric accessor for key.
func (a *DomainAdapter[T]) Measure(key string, fn func(T) float64) *DomainAdapter[T] {
	if _, ok := a.meas[key]; !ok {
		a.measKeys = append(a.measKeys, key)
	}
	a.meas[key] = fn
	return a
}

// Bind returns a view over data. The slice is referenced, not copied, and
// the adapter must not gain accessors while the view is in use.
func (a *DomainAdapter[T]) Bind(data []T) RecordView {
	return &DomainView[T]{data: data, adapter: a}
}

// DomainView is the RecordView returned by DomainAdapter.Bind.
type DomainView[T any] struct {
	data    []T
	adapter *DomainAdapter[T]
}

func (v *DomainView[T]) Len() int { return len(v.data) }

func (v *DomainView[T]) Dimension(i int, key string) string {
	fn, ok := v.adapter.dims[key]
	if !ok || i < 0 || i >= len(v.data) {
		return ""
	}
	return fn(v.data[i])
}

func (v *DomainView[T]) Measure(i int, key string) float64 {
	fn, ok := v.adapter.meas[key]
	if !ok || i < 0 || i >= len(v.data) {
		return 0
	}
	return fn(v.data[i])
}

func (v *DomainView[T]) DimensionKeys() []string { return v.adapter.dimKeys }
func (v *DomainView[T]) MeasureKeys() []string   { return v.adapter.measKeys }
