package artm

// StreamIterator is a stateful cursor over the items of a
// ProcessorInput.  With flags set it visits only items whose flag is
// true; without flags it visits every item.
type StreamIterator struct {
	input     *ProcessorInput
	itemIndex int
	flags     Mask
}

func NewStreamIterator(input *ProcessorInput) *StreamIterator {
	return &StreamIterator{
		input:     input,
		itemIndex: -1,
	}
}

// SetFlags restricts iteration to items whose flag is true.
func (it *StreamIterator) SetFlags(flags Mask) { it.flags = flags }

// Next advances to the next in-stream item and returns it, or nil at
// the end of the batch.
func (it *StreamIterator) Next() *Item {
	items := it.input.Batch.Items
	for {
		it.itemIndex++
		if it.itemIndex >= len(items) {
			break
		}
		if it.flags == nil || it.flags[it.itemIndex] {
			break
		}
	}
	return it.Current()
}

// Current returns the item under the cursor, or nil past the end.
func (it *StreamIterator) Current() *Item {
	if it.itemIndex < 0 || it.itemIndex >= len(it.input.Batch.Items) {
		return nil
	}
	return &it.input.Batch.Items[it.itemIndex]
}

func (it *StreamIterator) ItemIndex() int { return it.itemIndex }

// InStream consults the named stream's mask for the current item.  An
// absent stream means the item is in.
func (it *StreamIterator) InStream(name string) bool {
	return it.InStreamIndex(it.input.StreamIndex(name))
}

// InStreamIndex consults the stream at index, with -1 meaning no
// stream and therefore true.
func (it *StreamIterator) InStreamIndex(index int) bool {
	if index == -1 {
		return true
	}
	if it.itemIndex < 0 || it.itemIndex >= len(it.input.Batch.Items) {
		return false
	}
	return it.input.StreamMask[index][it.itemIndex]
}
