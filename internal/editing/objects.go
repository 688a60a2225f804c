package editing

import (
	"errors"
	"fmt"

	"github.com/rook-computer/crosshair/internal/state"
)

var (
	ErrIndexOutOfRange = errors.New("object index out of range")
	ErrUnknownKind     = errors.New("unknown object type")
)

// The list operations never modify their input. Each returns the new list and
// the index an editor should select next (-1 for none).

func AddObject(objs []state.SceneObject, kind state.Kind) ([]state.SceneObject, int, error) {
	obj, ok := state.NewObject(kind)
	if !ok {
		return objs, -1, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	out := append(clone(objs, 1), obj)
	return out, len(out) - 1, nil
}

// DuplicateObject inserts a copy of objs[index] right after it.
func DuplicateObject(objs []state.SceneObject, index int) ([]state.SceneObject, int, error) {
	if err := checkIndex(objs, index); err != nil {
		return objs, -1, err
	}
	out := clone(objs, 1)
	out = append(out[:index+1], append([]state.SceneObject{objs[index]}, out[index+1:]...)...)
	return out, index + 1, nil
}

// DeleteObject removes objs[index] and selects the object now at that
// position, or the last one.
func DeleteObject(objs []state.SceneObject, index int) ([]state.SceneObject, int, error) {
	if err := checkIndex(objs, index); err != nil {
		return objs, -1, err
	}
	out := clone(objs, 0)
	out = append(out[:index], out[index+1:]...)
	if len(out) == 0 {
		return out, -1, nil
	}
	return out, min(index, len(out)-1), nil
}

// MoveObject shifts objs[index] by delta places, stopping at either end.
// Later objects draw on top of earlier ones.
func MoveObject(objs []state.SceneObject, index, delta int) ([]state.SceneObject, int, error) {
	if err := checkIndex(objs, index); err != nil {
		return objs, -1, err
	}
	target := max(0, min(len(objs)-1, index+delta))
	out := clone(objs, 0)
	if target == index {
		return out, index, nil
	}
	moved := out[index]
	out = append(out[:index], out[index+1:]...)
	out = append(out[:target], append([]state.SceneObject{moved}, out[target:]...)...)
	return out, target, nil
}

// ObjectTitle is the one-line list label of the object at index.
func ObjectTitle(obj state.SceneObject, index int) string {
	kind := obj.Kind()
	if kind == "" {
		kind = state.KindCircle
	}
	return fmt.Sprintf("%d. %s", index+1, kind)
}

func checkIndex(objs []state.SceneObject, index int) error {
	if index < 0 || index >= len(objs) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(objs))
	}
	return nil
}

func clone(objs []state.SceneObject, extra int) []state.SceneObject {
	out := make([]state.SceneObject, len(objs), len(objs)+extra)
	copy(out, objs)
	return out
}
