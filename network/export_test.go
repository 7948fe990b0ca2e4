package network

// setNode overwrites node i, used to stage exact positions
func (f *Field) setNode(i int, n Node) {
	f.nodes[i] = n
}
