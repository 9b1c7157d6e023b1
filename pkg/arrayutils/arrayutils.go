package arrayutils

// Contains returns true when v is an element of arr.
func Contains[T comparable](arr []T, v T) bool {
	return IndexOf(arr, v) > -1
}

// IndexOf returns the index of v in arr, or -1 when absent.
func IndexOf[T comparable](arr []T, v T) int {
	for i, e := range arr {
		if e == v {
			return i
		}
	}
	return -1
}

// RemoveLazy removes the first occurrence of v from arr without
// preserving order.
func RemoveLazy[T comparable](arr []T, v T) []T {
	i := IndexOf(arr, v)
	if i < 0 {
		return arr
	}

	arr[i] = arr[len(arr)-1]
	return arr[:len(arr)-1]
}
