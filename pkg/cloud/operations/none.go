package operations

func init() {
	Register(&noneOperation{BaseOperation{OpID: OP_NONE, OpName: "NONE"}})
}

// noneOperation passes data through unchanged
type noneOperation struct {
	BaseOperation
}

func (o *noneOperation) Apply(input []byte) ([]byte, error) {
	return input, nil
}

func (o *noneOperation) Reverse(input []byte) ([]byte, error) {
	return input, nil
}
