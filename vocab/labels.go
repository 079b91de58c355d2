package vocab

// Labels is the class label table, kept in order of first appearance in the
// training corpus. The table is small, so lookups scan.
type Labels struct {
	Names []string
}

// Add returns the index of name, appending it first if unseen.
func (l *Labels) Add(name string) int {
	for i, n := range l.Names {
		if n == name {
			return i
		}
	}
	l.Names = append(l.Names, name)
	return len(l.Names) - 1
}

// Name returns the label at index i.
func (l *Labels) Name(i int) string {
	return l.Names[i]
}

// Len is the number of distinct labels.
func (l *Labels) Len() int {
	return len(l.Names)
}
