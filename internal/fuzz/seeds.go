package fuzztests

import (
	"testing"
)

const (
	maxSeedBytes = 64 << 10
	maxFuzzInput = 1 << 16
)

var languageSeeds = []string{
	"",
	"trait A {}",
	"pub trait Foo { fn bar(x: u64) -> bool; fn Baz(); }\n",
	"trait Ord<T: Eq + Hash> where T: Display { fn cmp(self, other: T) -> i32; }\n",
	"trait Iter<Item> { fn next(self) -> Option<Item>; fn count(self) -> u64 { 0 } }\n",
	"trait A { fn f(a: u8, a: u8); }\n",
	"trait A<T, T> {}\n",
	"trait true { fn f(); }\n",
	"trait A { fn f(self, self); fn g(x: [u8; 4]) -> (u8, bool); }\n",
	"trait A { fn f(x: fn(u8) -> u8) -> &mut Self; }\n",
	"trait A { fn f(",
	"trait { fn }",
	"trait A { fn f() -> ; }",
	"/* unterminated",
	"trait A { fn f(x: Vec<Vec<u8>>); } trait A {}",
	"trait Ünï { fn café(); }",
}

func addCorpusSeeds(f *testing.F) {
	for _, seed := range languageSeeds {
		f.Add(clampSeed([]byte(seed)))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}

func truncateForLog(input []byte, n int) []byte {
	if len(input) <= n {
		return input
	}
	return input[:n]
}
