package chip8

const (
	STACK_LIMIT = 16 // Maximum stack depth
)

// Stack is the return address stack, with an explicit stack pointer.
type Stack struct {
	Data    [STACK_LIMIT]uint16
	Pointer int // Number of live entries, 0..STACK_LIMIT.
}

// Push a return address. Returns false, leaving the stack unchanged,
// if the stack is full.
func (s *Stack) Push(value uint16) (ok bool) {
	if s.Full() {
		return
	}

	s.Data[s.Pointer] = value
	s.Pointer++

	return true
}

// Pop a return address. Returns false if the stack is empty.
func (s *Stack) Pop() (value uint16, ok bool) {
	value, ok = s.Peek()
	if ok {
		s.Pointer--
	}
	return
}

func (s *Stack) Empty() bool {
	return s.Pointer == 0
}

func (s *Stack) Full() bool {
	return s.Pointer == STACK_LIMIT
}

func (s *Stack) Peek() (value uint16, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[s.Pointer-1], true
}

func (s *Stack) Reset() {
	clear(s.Data[:])
	s.Pointer = 0
}
