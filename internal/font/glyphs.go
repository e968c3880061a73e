package font

// factory holds the receiver's built-in glyphs. Slots below Space are blank
// until the server defines them.
var factory = Table{
	0x20: {0, 0, 0, 0, 0, 0, 0, 0},        // space
	0x21: {4, 4, 4, 4, 0, 0, 4, 0},        // !
	0x22: {10, 10, 10, 0, 0, 0, 0, 0},     // "
	0x23: {10, 10, 31, 10, 31, 10, 10, 0}, // #
	0x24: {4, 15, 20, 14, 1, 30, 4, 0},    // $
	0x25: {24, 25, 2, 4, 8, 19, 3, 0},     // %
	0x26: {12, 18, 20, 8, 21, 18, 13, 0},  // &
	0x27: {12, 4, 8, 0, 0, 0, 0, 0},       // '
	0x28: {2, 4, 8, 8, 8, 4, 2, 0},        // (
	0x29: {8, 4, 2, 2, 2, 4, 8, 0},        // )
	0x2A: {0, 4, 21, 14, 21, 4, 0, 0},     // *
	0x2B: {0, 4, 4, 31, 4, 4, 0, 0},       // +
	0x2C: {0, 0, 0, 0, 12, 4, 8, 0},       // ,
	0x2D: {0, 0, 0, 31, 0, 0, 0, 0},       // -
	0x2E: {0, 0, 0, 0, 0, 12, 12, 0},      // .
	0x2F: {0, 1, 2, 4, 8, 16, 0, 0},       // /
	0x30: {14, 17, 19, 21, 25, 17, 14, 0}, // 0
	0x31: {4, 12, 4, 4, 4, 4, 14, 0},      // 1
	0x32: {14, 17, 1, 2, 4, 8, 31, 0},     // 2
	0x33: {31, 2, 4, 2, 1, 17, 14, 0},     // 3
	0x34: {2, 6, 10, 18, 31, 2, 2, 0},     // 4
	0x35: {31, 16, 30, 1, 1, 17, 14, 0},   // 5
	0x36: {6, 8, 16, 30, 17, 17, 14, 0},   // 6
	0x37: {31, 1, 2, 4, 8, 8, 8, 0},       // 7
	0x38: {14, 17, 17, 14, 17, 17, 14, 0}, // 8
	0x39: {14, 17, 17, 15, 1, 2, 12, 0},   // 9
	0x3A: {0, 12, 12, 0, 12, 12, 0, 0},    // :
	0x3B: {0, 12, 12, 0, 12, 4, 8, 0},     // ;
	0x3C: {2, 4, 8, 16, 8, 4, 2, 0},       // <
	0x3D: {0, 0, 31, 0, 31, 0, 0, 0},      // =
	0x3E: {8, 4, 2, 1, 2, 4, 8, 0},        // >
	0x3F: {14, 17, 1, 2, 4, 0, 4, 0},      // ?
	0x40: {14, 17, 1, 13, 21, 21, 14, 0},  // @
	0x41: {14, 17, 17, 17, 31, 17, 17, 0}, // A
	0x42: {30, 17, 17, 30, 17, 17, 30, 0}, // B
	0x43: {14, 17, 16, 16, 16, 17, 14, 0}, // C
	0x44: {28, 18, 17, 17, 17, 18, 28, 0}, // D
	0x45: {31, 16, 16, 30, 16, 16, 31, 0}, // E
	0x46: {31, 16, 16, 30, 16, 16, 16, 0}, // F
	0x47: {14, 17, 16, 23, 17, 17, 15, 0}, // G
	0x48: {17, 17, 17, 31, 17, 17, 17, 0}, // H
	0x49: {14, 4, 4, 4, 4, 4, 14, 0},      // I
	0x4A: {7, 2, 2, 2, 2, 18, 14, 0},      // J
	0x4B: {17, 18, 20, 24, 20, 18, 17, 0}, // K
	0x4C: {16, 16, 16, 16, 16, 16, 31, 0}, // L
	0x4D: {17, 27, 21, 21, 17, 17, 17, 0}, // M
	0x4E: {17, 17, 25, 21, 19, 17, 17, 0}, // N
	0x4F: {14, 17, 17, 17, 17, 17, 14, 0}, // O
	0x50: {30, 17, 17, 30, 16, 16, 16, 0}, // P
	0x51: {14, 17, 17, 17, 21, 18, 13, 0}, // Q
	0x52: {30, 17, 17, 30, 20, 18, 17, 0}, // R
	0x53: {15, 16, 16, 14, 1, 1, 30, 0},   // S
	0x54: {31, 4, 4, 4, 4, 4, 4, 0},       // T
	0x55: {17, 17, 17, 17, 17, 17, 14, 0}, // U
	0x56: {17, 17, 17, 17, 17, 10, 4, 0},  // V
	0x57: {17, 17, 17, 21, 21, 21, 10, 0}, // W
	0x58: {17, 17, 10, 4, 10, 17, 17, 0},  // X
	0x59: {17, 17, 17, 10, 4, 4, 4, 0},    // Y
	0x5A: {31, 1, 2, 4, 8, 16, 31, 0},     // Z
	0x5B: {14, 8, 8, 8, 8, 8, 14, 0},      // [
	0x5C: {0, 16, 8, 4, 2, 1, 0, 0},       // backslash
	0x5D: {14, 2, 2, 2, 2, 2, 14, 0},      // ]
	0x5E: {4, 10, 17, 0, 0, 0, 0, 0},      // ^
	0x5F: {0, 0, 0, 0, 0, 0, 31, 0},       // _
	0x60: {8, 4, 2, 0, 0, 0, 0, 0},        // `
	0x61: {0, 0, 14, 1, 15, 17, 15, 0},    // a
	0x62: {16, 16, 22, 25, 17, 17, 30, 0}, // b
	0x63: {0, 0, 14, 16, 16, 17, 14, 0},   // c
	0x64: {1, 1, 13, 19, 17, 17, 15, 0},   // d
	0x65: {0, 0, 14, 17, 31, 16, 14, 0},   // e
	0x66: {6, 9, 8, 28, 8, 8, 8, 0},       // f
	0x67: {0, 15, 17, 17, 15, 1, 14, 0},   // g
	0x68: {16, 16, 22, 25, 17, 17, 17, 0}, // h
	0x69: {4, 0, 12, 4, 4, 4, 14, 0},      // i
	0x6A: {2, 0, 6, 2, 2, 18, 12, 0},      // j
	0x6B: {16, 16, 18, 20, 24, 20, 18, 0}, // k
	0x6C: {12, 4, 4, 4, 4, 4, 14, 0},      // l
	0x6D: {0, 0, 26, 21, 21, 17, 17, 0},   // m
	0x6E: {0, 0, 22, 25, 17, 17, 17, 0},   // n
	0x6F: {0, 0, 14, 17, 17, 17, 14, 0},   // o
	0x70: {0, 0, 30, 17, 30, 16, 16, 0},   // p
	0x71: {0, 0, 13, 19, 15, 1, 1, 0},     // q
	0x72: {0, 0, 22, 25, 16, 16, 16, 0},   // r
	0x73: {0, 0, 14, 16, 14, 1, 30, 0},    // s
	0x74: {8, 8, 28, 8, 8, 9, 6, 0},       // t
	0x75: {0, 0, 17, 17, 17, 19, 13, 0},   // u
	0x76: {0, 0, 17, 17, 17, 10, 4, 0},    // v
	0x77: {0, 0, 17, 17, 21, 21, 10, 0},   // w
	0x78: {0, 0, 17, 10, 4, 10, 17, 0},    // x
	0x79: {0, 0, 17, 17, 15, 1, 14, 0},    // y
	0x7A: {0, 0, 31, 2, 4, 8, 31, 0},      // z
	0x7B: {2, 4, 4, 8, 4, 4, 2, 0},        // {
	0x7C: {4, 4, 4, 4, 4, 4, 4, 0},        // |
	0x7D: {8, 4, 4, 2, 4, 4, 8, 0},        // }
	0x7E: {0, 0, 4, 2, 31, 2, 4, 0},       // right arrow
	0x7F: {0, 0, 4, 8, 31, 8, 4, 0},       // left arrow
	0x80: {31, 31, 31, 31, 31, 31, 31, 0}, // block
}
