package rx

// Pipe applies fns to value, from left to right, and returns the result.
// Pipe(x) returns x.
func Pipe[T any](value T, fns ...func(T) T) T {
	for _, fn := range fns {
		value = fn(value)
	}

	return value
}

// Pipe1 returns f1(a). It exists to make a chain of one operator read the same as longer ones.
func Pipe1[A any, B any](a A, f1 func(A) B) B {
	return f1(a)
}

// Pipe2 returns f2(f1(a)).
func Pipe2[A any, B any, C any](a A, f1 func(A) B, f2 func(B) C) C {
	return f2(f1(a))
}

// Pipe3 returns f3(f2(f1(a))).
func Pipe3[A any, B any, C any, D any](a A, f1 func(A) B, f2 func(B) C, f3 func(C) D) D {
	return f3(f2(f1(a)))
}

// Pipe4 returns f4(f3(f2(f1(a)))).
func Pipe4[A any, B any, C any, D any, E any](a A, f1 func(A) B, f2 func(B) C, f3 func(C) D, f4 func(D) E) E {
	return f4(f3(f2(f1(a))))
}

// Pipe5 returns f5(f4(f3(f2(f1(a))))).
func Pipe5[A any, B any, C any, D any, E any, F any](
	a A, f1 func(A) B, f2 func(B) C, f3 func(C) D, f4 func(D) E, f5 func(E) F,
) F {
	return f5(f4(f3(f2(f1(a)))))
}

// Pipe6 returns f6(f5(f4(f3(f2(f1(a)))))).
func Pipe6[A any, B any, C any, D any, E any, F any, G any](
	a A, f1 func(A) B, f2 func(B) C, f3 func(C) D, f4 func(D) E, f5 func(E) F, f6 func(F) G,
) G {
	return f6(f5(f4(f3(f2(f1(a))))))
}
