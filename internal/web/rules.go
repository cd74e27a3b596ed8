package web

import (
    "fmt"

    "github.com/jaminalder/tictactoe-variants/internal/domain"
)

// rulesText explains the variant being played, one rule per entry.
func rulesText(kind domain.Kind, cfg domain.Config, fill domain.FillMode) []string {
    switch kind {
    case domain.Scored:
        rules := []string{
            fmt.Sprintf("The board is %d×%d and a line is %d cells long.", cfg.Size, cfg.Size, cfg.WinLen),
            "Every cell has a weight. A line is worth the sum of its weights.",
            "Pieces cost: X pays even amounts (2, 4, 6...), O pays odd amounts (3, 5, 7...). The cell weight is paid too.",
            "Total = line score - spent.",
            fmt.Sprintf("The game ends after %d moves or when the board is full. The higher total wins.", cfg.MaxMoves),
        }
        return append(rules, fillRule(fill))
    case domain.Ultimate:
        return []string{
            "The board is nine 3×3 sub-boards.",
            "Win a sub-board with three in a row. Win the game with three sub-boards in a row.",
            "Your cell inside a sub-board sends the opponent to the matching sub-board.",
            "If that sub-board is closed, the opponent may play in any open sub-board.",
        }
    default:
        if cfg.WinLen < cfg.Size {
            return []string{fmt.Sprintf("Place %d marks in a row, in any direction, to win.", cfg.WinLen)}
        }
        return []string{fmt.Sprintf("Fill a row, column or diagonal of %d to win.", cfg.Size)}
    }
}

func fillRule(fill domain.FillMode) string {
    switch fill {
    case domain.TopDownRows:
        return "Moves go into the highlighted row, filled top to bottom."
    case domain.LeftRightCols:
        return "Moves go into the highlighted column, filled left to right."
    case domain.RandomRow:
        return "Moves go into a randomly chosen row."
    case domain.RandomCol:
        return "Moves go into a randomly chosen column."
    case domain.RandomRowOrCol:
        return "Moves go into a randomly chosen row or column."
    case domain.Gravity:
        return "Pieces drop: play on the bottom row or on top of another piece."
    }
    return "Moves may go into any empty cell."
}
