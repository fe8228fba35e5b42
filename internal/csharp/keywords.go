package csharp

import "github.com/kwatters/hilex/internal/document"

// Keywords bundles the keyword tables the lexer consults. The host owns the
// contents; DefaultKeywords supplies a workable base set.
type Keywords struct {
	Keyword      document.WordList // language keywords
	Type         document.WordList // built-in value types
	TypeExtra    document.WordList // extended/dialect type names
	Preprocessor document.WordList // directive words after '#'
	Attribute    document.WordList // well-known attribute names
	Class        document.WordList // well-known class names
	Struct       document.WordList // well-known struct names
	Interface    document.WordList // well-known interface names
	Enum         document.WordList // well-known enum names
	Constant     document.WordList // well-known constants
	TaskMarker   document.WordList // lowercase comment markers (todo, fixme, ...)
}

// DefaultKeywords returns the stock keyword tables.
func DefaultKeywords() *Keywords {
	return &Keywords{
		Keyword: document.NewWordListFromString(`
			abstract add alias as ascending async await base break by case catch checked
			class const continue default delegate descending do dynamic else enum equals
			event explicit extern false file finally fixed for foreach from get global
			goto group if implicit in init interface internal into is join let lock
			managed nameof namespace new notnull null on operator orderby out override
			params partial private protected public readonly record ref remove required
			return scoped sealed select set sizeof stackalloc static struct switch this
			throw true try typeof unchecked unmanaged unsafe using value var virtual
			void volatile when where while with yield`),
		Type: document.NewWordListFromString(`
			bool byte char decimal double float int long nint nuint object sbyte short
			string uint ulong ushort void`),
		TypeExtra: document.NewWordListFromString(`
			int8 int16 int32 int64 uint8 uint16 uint32 uint64 unichar size_t ssize_t`),
		Preprocessor: document.NewWordListFromString(`
			define elif else endif endregion error if line nullable pragma region undef warning`),
		Attribute: document.NewWordListFromString(`
			Conditional DebuggerDisplay DllImport Flags MethodImpl Obsolete Serializable
			StructLayout ThreadStatic`),
		Class: document.NewWordListFromString(`
			ArgumentException Array Console Convert Dictionary Encoding Exception
			InvalidOperationException List Math Object Queue Random Stack String
			StringBuilder Task Tuple Type`),
		Struct: document.NewWordListFromString(`
			DateTime DateTimeOffset Guid Memory Nullable ReadOnlySpan Span TimeSpan ValueTuple`),
		Interface: document.NewWordListFromString(`
			IAsyncDisposable ICollection IComparable IDictionary IDisposable IEnumerable
			IEnumerator IEquatable IList IReadOnlyList`),
		Enum: document.NewWordListFromString(`
			DayOfWeek StringComparison StringSplitOptions TypeCode`),
		Constant: document.NewWordListFromString(`
			Empty MaxValue MinValue NaN NegativeInfinity PositiveInfinity`),
		TaskMarker: document.NewWordListFromString(`todo fixme hack note xxx`),
	}
}
