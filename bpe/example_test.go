package bpe_test

import (
	"fmt"

	"github.com/finchlabs/go-bpe-trainer/bpe"
)

func ExampleTokenizer_Train() {
	tok := bpe.New(4)
	merges, err := tok.Train([]string{"aaaaaa"})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("alphabet: %d\n", tok.AlphabetSize())
	fmt.Printf("merges: %d\n", len(merges))
	fmt.Printf("vocabulary: %v\n", tok.Vocabulary())
	// Output:
	// alphabet: 2
	// merges: 2
	// vocabulary: [a □ aa aaaa]
}

func ExampleTokenizer_Encode() {
	tok := bpe.New(4)
	if _, err := tok.Train([]string{"aaaaaa"}); err != nil {
		fmt.Println("error:", err)
		return
	}
	encoded, err := tok.Encode([]string{"aaaaaa"})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("tokens: %v\n", encoded[0])
	fmt.Printf("decoded: %s\n", tok.Decode(encoded)[0])
	// Output:
	// tokens: [3 2]
	// decoded: aaaaaa
}

func ExampleTokenizer_Decode() {
	tok := bpe.New(4)
	if _, err := tok.Train([]string{"aaaaaa"}); err != nil {
		fmt.Println("error:", err)
		return
	}
	// Symbol 1 is the unknown placeholder; 999 is not in the table.
	fmt.Println(tok.Decode([][]int{{0, 1, 999}})[0])
	// Output: a□□
}
