package lzari

// tree is the binary search tree over ring buffer positions used to find the
// longest match for the lookahead. Index nilNode marks a missing node, the
// entries above it are the roots for every possible first byte.
type tree struct {
	text          [ringSize + maxMatch - 1]byte
	left          [ringSize + 1]int
	right         [ringSize + 257]int
	parent        [ringSize + 1]int
	matchPosition int
	matchLength   int
}

func newTree() *tree {
	t := &tree{}
	for i := ringSize + 1; i <= ringSize+256; i++ {
		t.right[i] = nilNode
	}
	for i := range ringSize {
		t.parent[i] = nilNode
	}
	return t
}

// insert adds the string starting at r to the tree and records the longest
// match found on the way. An equally long match replaces the old node.
func (t *tree) insert(r int) {
	cmp := 1
	key := t.text[r:]
	p := ringSize + 1 + int(key[0])
	t.right[r] = nilNode
	t.left[r] = nilNode
	t.matchLength = 0

	for {
		if cmp >= 0 {
			if t.right[p] == nilNode {
				t.right[p] = r
				t.parent[r] = p
				return
			}
			p = t.right[p]
		} else {
			if t.left[p] == nilNode {
				t.left[p] = r
				t.parent[r] = p
				return
			}
			p = t.left[p]
		}

		i := 1
		for ; i < maxMatch; i++ {
			cmp = int(key[i]) - int(t.text[p+i])
			if cmp != 0 {
				break
			}
		}

		if i > threshold {
			if i > t.matchLength {
				t.matchPosition = (r - p) & (ringSize - 1)
				t.matchLength = i
				if i >= maxMatch {
					break
				}
			} else if i == t.matchLength {
				if pos := (r - p) & (ringSize - 1); pos < t.matchPosition {
					t.matchPosition = pos
				}
			}
		}
	}

	// replace p by r
	t.parent[r] = t.parent[p]
	t.left[r] = t.left[p]
	t.right[r] = t.right[p]
	t.parent[t.left[p]] = r
	t.parent[t.right[p]] = r
	if t.right[t.parent[p]] == p {
		t.right[t.parent[p]] = r
	} else {
		t.left[t.parent[p]] = r
	}
	t.parent[p] = nilNode
}

// remove deletes node p from the tree.
func (t *tree) remove(p int) {
	if t.parent[p] == nilNode {
		return
	}

	var q int
	switch {
	case t.right[p] == nilNode:
		q = t.left[p]
	case t.left[p] == nilNode:
		q = t.right[p]
	default:
		q = t.left[p]
		if t.right[q] != nilNode {
			for t.right[q] != nilNode {
				q = t.right[q]
			}
			t.right[t.parent[q]] = t.left[q]
			t.parent[t.left[q]] = t.parent[q]
			t.left[q] = t.left[p]
			t.parent[t.left[p]] = q
		}
		t.right[q] = t.right[p]
		t.parent[t.right[p]] = q
	}

	t.parent[q] = t.parent[p]
	if t.right[t.parent[p]] == p {
		t.right[t.parent[p]] = q
	} else {
		t.left[t.parent[p]] = q
	}
	t.parent[p] = nilNode
}
