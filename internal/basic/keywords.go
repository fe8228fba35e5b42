package basic

import "github.com/kwatters/hilex/internal/document"

// Keywords bundles the keyword tables the lexer consults. Entries ending in
// '(' mark callable names matched via ContainsPrefixed.
type Keywords struct {
	Keyword        document.WordList // core keywords; "word(" entries double as callables
	TypeKeyword    document.WordList // built-in type names
	ClassicKeyword document.WordList // keywords only meaningful in the classic dialect
	Preprocessor   document.WordList // directive words after '#'
	Attribute      document.WordList // attribute names ("word(" entries)
	Class          document.WordList // well-known class names
	Interface      document.WordList // well-known interface names
	Enum           document.WordList // well-known enum names
	Constant       document.WordList // well-known constants
	BasicFunction  document.WordList // built-in functions ("word(" entries)
}

// DefaultKeywords returns the stock keyword tables, all lowercase.
func DefaultKeywords() *Keywords {
	return &Keywords{
		Keyword: document.NewWordListFromString(`
			addhandler addressof alias and andalso as byref byval call case catch
			class const continue custom declare default delegate dim do each else
			elseif end enum erase error event exit false finally for friend function
			get global gosub goto handles if implements imports in inherits
			interface is isnot let lib like loop me mod module mustinherit
			mustoverride mybase myclass namespace narrowing new next not nothing
			notinheritable notoverridable of on operator option optional or orelse
			overloads overridable overrides paramarray partial private property
			protected public raiseevent readonly redim rem removehandler resume
			return select set shadows shared static step stop structure sub synclock
			then throw to true try type typeof using wend when while widening with
			withevents writeonly xor
			cbool( cbyte( cchar( cdate( cdbl( cdec( cint( clng( cobj( csbyte(
			cshort( csng( cstr( ctype( cuint( culng( cushort( directcast( trycast(
			gettype(`),
		TypeKeyword: document.NewWordListFromString(`
			boolean byte char date decimal double integer long object sbyte short
			single string uinteger ulong ushort variant`),
		ClassicKeyword: document.NewWordListFromString(`
			attribute begin circle currency defbool defbyte defcur defdate defdbl
			defint deflng defobj defsng defstr defvar doevents lset print pset
			rset scale`),
		Preprocessor: document.NewWordListFromString(`
			const disable elseif else enable end externalsource if region`),
		Attribute: document.NewWordListFromString(`
			clscompliant( comclass( dllimport( flags( obsolete( serializable(
			webmethod(`),
		Class: document.NewWordListFromString(`
			array console convert exception math object queue random stack string
			stringbuilder collection dictionary list`),
		Interface: document.NewWordListFromString(`
			icollection icomparable idictionary idisposable ienumerable ienumerator
			ilist`),
		Enum: document.NewWordListFromString(`
			appwinstyle calltype comparemethod dayofweek duedate filemode msgboxresult
			msgboxstyle tristate`),
		Constant: document.NewWordListFromString(`
			vbabort vbback vbcancel vbcr vbcrlf vbempty vbfalse vbignore vblf vbno
			vbnull vbnullchar vbnullstring vbok vbretry vbtab vbtrue vbyes`),
		BasicFunction: document.NewWordListFromString(`
			abs( asc( atn( cos( chr( date( exp( fix( format( hex( inputbox( instr(
			int( isarray( isdate( isempty( isnull( isnumeric( lbound( lcase( left(
			len( log( ltrim( mid( msgbox( now( oct( replace( right( rnd( rtrim(
			sgn( sin( space( split( sqr( str( strcomp( tan( time( trim( ubound(
			ucase( val(`),
	}
}
