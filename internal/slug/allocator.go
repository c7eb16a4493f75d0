package slug

import "path"

// Allocator hands out unique names per directory for one export run.
//
// The first claimant of a name keeps it; later claimants of the same name in
// the same directory get _1, _2 and so on. A claim is keyed by its owner, so
// asking again for the same owner returns the name it already holds. An
// Allocator is not safe for concurrent use.
type Allocator struct {
	taken map[string]string // dir/name -> owner
	held  map[string]string // owner \x00 dir -> name
}

// NewAllocator returns an empty Allocator.
func NewAllocator() *Allocator {
	return &Allocator{
		taken: make(map[string]string),
		held:  make(map[string]string),
	}
}

// Claim reserves base+ext in dir for owner and returns the name granted.
func (a *Allocator) Claim(dir, owner, base, ext string) string {
	key := owner + "\x00" + dir
	if name, ok := a.held[key]; ok {
		return name
	}
	for n := 0; ; n++ {
		name := WithSuffix(base, n, ext)
		p := path.Join(dir, name)
		if _, busy := a.taken[p]; busy {
			continue
		}
		a.taken[p] = owner
		a.held[key] = name
		return name
	}
}

// Owner returns who holds name in dir.
func (a *Allocator) Owner(dir, name string) (string, bool) {
	o, ok := a.taken[path.Join(dir, name)]
	return o, ok
}

// Len returns the number of names handed out.
func (a *Allocator) Len() int {
	return len(a.taken)
}
