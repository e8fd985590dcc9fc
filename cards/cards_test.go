package cards

import "testing"

func TestSuitAndRank(t *testing.T) {
	cases := []struct {
		card Card
		suit Suit
		rank Rank
	}{
		{Card(0), Spades, Ace},
		{Card(12), Spades, King},
		{Card(13), Hearts, Ace},
		{Card(26), Clubs, Ace},
		{Card(39), Diamonds, Ace},
		{Card(53), 0, 0}, // joker: Suit/Rank not meaningful, checked separately
	}
	for _, c := range cases[:len(cases)-1] {
		if got := c.card.Suit(); got != c.suit {
			t.Errorf("Card(%d).Suit() = %v, want %v", c.card, got, c.suit)
		}
		if got := c.card.Rank(); got != c.rank {
			t.Errorf("Card(%d).Rank() = %v, want %v", c.card, got, c.rank)
		}
	}
}

func TestIsJoker(t *testing.T) {
	if !Joker1.IsJoker() || !Joker2.IsJoker() {
		t.Fatal("jokers must report IsJoker() true")
	}
	if Card(0).IsJoker() {
		t.Fatal("non-joker reported as joker")
	}
}

func TestPoints(t *testing.T) {
	cases := []struct {
		card Card
		pts  int
	}{
		{Card(0), 1},   // Ace
		{Card(9), 10},  // Ten
		{Card(10), 11}, // Jack
		{Card(11), 12}, // Queen
		{Card(12), 13}, // King
		{Joker1, 0},
	}
	for _, c := range cases {
		if got := c.card.Points(); got != c.pts {
			t.Errorf("Card(%d).Points() = %d, want %d", c.card, got, c.pts)
		}
	}
}

func TestHandWithoutAndWith(t *testing.T) {
	h := Hand{Card(0), Card(1), Card(2)}
	h2 := h.Without(Hand{Card(1)})
	if len(h2) != 2 {
		t.Fatalf("expected 2 cards remaining, got %d", len(h2))
	}
	if h2.Contains(Hand{Card(1)}) {
		t.Fatal("card(1) should have been removed")
	}
	h3 := h2.With(Card(5))
	if !h3.Contains(Hand{Card(5)}) {
		t.Fatal("card(5) should have been added")
	}
	// Original hand is untouched.
	if len(h) != 3 {
		t.Fatal("Without must not mutate the receiver")
	}
}

func TestNewDeckHas54UniqueCards(t *testing.T) {
	deck := NewDeck()
	if len(deck) != NumCards {
		t.Fatalf("expected %d cards, got %d", NumCards, len(deck))
	}
	seen := make(map[Card]bool)
	for _, c := range deck {
		if seen[c] {
			t.Fatalf("duplicate card %v in fresh deck", c)
		}
		seen[c] = true
	}
}
