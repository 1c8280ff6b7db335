package timeline

// Recorder 记录目标属性在首次被写入之前的值，Revert 时按写入的逆序还原
//
// 视图销毁后重新创建时，新片段在首次渲染时读取起始值；先还原这些属性，
// 重建结果才与首次创建一致。
type Recorder struct {
	seen     map[recordKey]bool
	entries  []recordEntry
	reverted bool
}

type recordKey struct {
	target Target
	prop   string
}

type recordEntry struct {
	recordKey
	value float64
}

// NewRecorder 创建记录器
func NewRecorder() *Recorder {
	return &Recorder{seen: make(map[recordKey]bool)}
}

// Wrap 返回写入时会先记录原值的目标
func (r *Recorder) Wrap(t Target) Target {
	if t == nil {
		return nil
	}
	if w, ok := t.(*recorded); ok {
		t = w.inner
	}
	return &recorded{rec: r, inner: t}
}

// Resolver 包装解析器，解析出的目标都经过 Wrap
func (r *Recorder) Resolver(inner Resolver) Resolver {
	return recordingResolver{rec: r, inner: inner}
}

// Len 已记录的属性数量
func (r *Recorder) Len() int {
	return len(r.entries)
}

// Revert 按逆序写回原值，只执行一次；之后的写入不再记录
func (r *Recorder) Revert() {
	if r.reverted {
		return
	}
	r.reverted = true
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		e.target.Set(e.prop, e.value)
	}
	r.entries = nil
	r.seen = nil
}

func (r *Recorder) note(t Target, prop string) {
	if r.reverted {
		return
	}
	key := recordKey{target: t, prop: prop}
	if r.seen[key] {
		return
	}
	r.seen[key] = true
	v, _ := t.Get(prop)
	r.entries = append(r.entries, recordEntry{recordKey: key, value: v})
}

type recorded struct {
	rec   *Recorder
	inner Target
}

func (w *recorded) Get(prop string) (float64, bool) {
	return w.inner.Get(prop)
}

func (w *recorded) Set(prop string, value float64) {
	w.rec.note(w.inner, prop)
	w.inner.Set(prop, value)
}

type recordingResolver struct {
	rec   *Recorder
	inner Resolver
}

func (rr recordingResolver) Resolve(selector string) []Target {
	if rr.inner == nil {
		return nil
	}
	found := rr.inner.Resolve(selector)
	out := make([]Target, len(found))
	for i, t := range found {
		out[i] = rr.rec.Wrap(t)
	}
	return out
}
