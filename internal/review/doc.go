// Package review turns duplicate groups into keep-recommendations. It scores
// copies by media-root distribution and file size but never deletes or moves
// anything; acting on the advice is left to the user.
package review
