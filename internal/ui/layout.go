package ui

// LayoutCompactWidth is the terminal width below which the header drops
// secondary fields.
const LayoutCompactWidth = 100
